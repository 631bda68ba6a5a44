// Package httputil provides shared HTTP response/request helpers.
//
// Handlers write through these helpers instead of touching
// http.ResponseWriter directly, so every endpoint emits the same JSON
// envelope: {"error": "..."} for failures.
package httputil
