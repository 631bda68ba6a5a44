// Package api is the HTTP surface: the subscribe endpoint, the banner,
// health probes and Prometheus metrics, routed with chi.
package api
