// Package diagnostics implements the comms window: it edits the
// connection settings shared by every inspector, asks the host to refresh
// the simulator's exported state and shows the last state received.
//
// The window never talks to the host itself. Connection changes and
// refresh requests go through its opener, and game-state snapshots arrive
// through GotDcsGameState. A nil snapshot means the host saw no module
// running.
package diagnostics
