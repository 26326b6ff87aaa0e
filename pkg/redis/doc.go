// Package redis provides helpers for connecting the notification subsystem
// to a Redis server: a Connect function that retries until the server is
// ready and a health-check closure for liveness probes.
//
// The settings loader in pkg/settings uses a Redis client obtained here to
// share engine kill-switch values across service instances.
package redis
