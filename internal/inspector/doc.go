// Package inspector wires the host connection, the settings store and the
// auxiliary windows into one property inspector.
//
// Router is the single entry point for inbound messages. Host events
// arrive from the connection's read goroutine; window messages arrive as
// direct calls through the window.Opener interface. Both use the same
// event tags and the same reconciliation rules.
//
// Windows can call back into the router while a delivery is in progress
// (the lookup window requests a table as soon as it gets the module list),
// so the router never holds its lock while calling a window.
package inspector
