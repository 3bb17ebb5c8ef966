// Package httpserver wraps net/http.Server with environment configuration,
// graceful shutdown on SIGINT/SIGTERM or context cancellation, and request
// logging middleware.
package httpserver
