// Package influxdb records simulator game state in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, batched writes and health monitoring. Each game-state
// snapshot becomes one point per numeric export entry:
//
//	dcs_game_state,dcs_id=2026 value=0.5
//
// Non-numeric entries (display strings, frequencies rendered as text) are
// skipped.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	insp.AddSink(client)
//
// # Error Handling
//
// Writes are non-blocking; batch errors are reported through SetOnError.
// Connection and health check errors are returned directly.
package influxdb
