package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when the sink is switched off.
	ErrDisabled = errors.New("influxdb: telemetry disabled")

	// ErrConnectionFailed wraps a failed ping at startup.
	ErrConnectionFailed = errors.New("influxdb: cannot reach server")

	// ErrNotConnected is returned after Close.
	ErrNotConnected = errors.New("influxdb: sink closed")

	// ErrWriteFailed wraps errors delivered to the SetOnError callback and
	// snapshots rejected before queueing.
	ErrWriteFailed = errors.New("influxdb: game-state write failed")

	errUnhealthy = errors.New("server reported unhealthy")
)
