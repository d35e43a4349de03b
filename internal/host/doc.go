// Package host manages the inspector's socket to the device-control host.
//
// The host launches the inspector with a port, an inspector identity token,
// the name of the registration event and a JSON description of the action
// instance being configured. Conn dials the host, registers, requests the
// global-settings record and then exchanges one JSON object per frame.
//
// Lifecycle:
//
//	Disconnected -> Connecting -> Registered -> Ready
//	      any state -> Closed (terminal, no reconnect)
//
// Registration is fire-and-forget; Conn accepts sends from Registered on.
// Ready only means the global-settings request has been sent. There is no
// request/response correlation in the protocol: replies arrive later as
// independent events and are matched by event tag and identity channel.
//
// Two identity channels exist. Per-instance requests carry the instance
// context token; global-scope requests (module listing, lookup tables,
// game-state refresh) carry the inspector's own token. Using the wrong one
// makes the host deliver its reply to the wrong recipient.
package host
