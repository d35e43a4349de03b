// Package mqtt publishes inspector telemetry to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Retained online/offline status with a Last Will and Testament
//   - Host connection-state and game-state publishing
//
// # Topics
//
// Every inspector instance publishes under its own subtree, keyed by the
// property-inspector UUID the host assigned at launch:
//
//	{prefix}/{inspector_uuid}/status     retained, LWT "offline"
//	{prefix}/{inspector_uuid}/state      retained, host connection state
//	{prefix}/{inspector_uuid}/gamestate  latest simulator export snapshot
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, reg.InspectorUUID)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	insp.AddSink(client)
package mqtt
