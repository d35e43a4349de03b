// Package api implements the local HTTP control surface and WebSocket event
// stream for the DCS inspector core.
//
// This package provides:
//   - REST endpoints for the instance settings, the shared global settings
//     and the auxiliary windows
//   - WebSocket hub relaying inspector events to connected clients
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Architecture
//
// The API server is a thin adapter over an inspector Controller. Every
// request maps onto one inspector operation, and every inspector event is
// broadcast on the hub under its event name. Stream clients pick events with
// the "events" query parameter, so a client connected with events=prompt
// sees the message the lookup window would have shown in a dialog. GET
// /health reports the host state and each optional telemetry sink.
//
// # Security
//
// The server binds to the loopback interface by default and has no
// authentication: it is reachable only by processes on the same machine as
// the device-control host.
package api
