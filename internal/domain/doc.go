// Package domain defines the core business types for the welcome mailer.
//
// Types in this package are plain value objects with no database or HTTP
// dependencies. They are the shared language between handlers, services and
// repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed
package domain
