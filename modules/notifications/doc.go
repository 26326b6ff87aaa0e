// Package notifications exposes the notification subsystem over HTTP: device
// token registration and revocation, subscription preference management, and
// the publish endpoint the tournament controllers and the external scheduler
// trigger fan-out through.
//
// All endpoints speak JSON. Authentication is the host application's concern;
// mount the router behind whatever middleware enforces it.
package notifications
