// Package settings holds the per-instance settings record and the shared
// global-settings snapshot for one inspector.
//
// A settings record is an open-ended mapping from field name to a string,
// number or boolean. The host owns durable storage and overwrites a
// record wholesale, so every write in this package is a field-level merge
// resolved locally before anything is sent:
//
//	merged := store.Merge(settings.Record{"press_value": "1"})
//	conn.Send(merged) // full record, never the partial
//
// The package also provides the per-kind default tables, the derived
// send_address rule and the ValueMapping string codec used by display
// monitors.
package settings
