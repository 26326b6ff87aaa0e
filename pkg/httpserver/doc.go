// Package httpserver wraps net/http with graceful shutdown, env-driven
// timeouts, and health-check handlers for the notification service's probes.
package httpserver
