// Package window tracks the auxiliary windows an inspector opens and
// defines the message channel between those windows and their opener.
//
// At most one live window exists per Kind. Opening a kind whose window is
// still live is a no-op; the existing window is left untouched and is not
// raised or focused.
//
// Windows have no connection to the host. They reach the outside world
// only by calling their Opener with a Message carrying one of the event
// tags declared in this package. The opener reaches a window through the
// receiver interfaces (ModuleReceiver, ClickableDataReceiver,
// GameStateReceiver); a window that does not implement a receiver simply
// has that channel unconnected and deliveries to it are dropped.
//
// Closure is observed two ways: Registry.Watch reacts to a window's Done
// channel as soon as it closes, and also polls liveness on a fixed
// interval for windows whose Done never fires.
package window
