// Package settings provides the notification engine's runtime switches and
// an explicit short-TTL cache for reading them.
//
// The cache is a plain object holding (value, expiry) with a Refresh
// function - deliberately not a module-level singleton - so the component
// that consults the switches owns the caching behavior. Loaders are plain
// functions; Static serves fixed values and FromRedis shares a JSON-encoded
// value across service instances.
package settings
