// Package lookup implements the ID lookup window: it lists installed
// modules, shows the clickable-data table for the selected module and
// imports a selected row into the opener's settings.
//
// The window has no host connection. It asks its opener to forward module
// and table requests, and receives the answers through
// GotInstalledModules and GotClickableData. Every import sends its
// message, saves the window's fields into the global settings and closes
// the window.
package lookup
