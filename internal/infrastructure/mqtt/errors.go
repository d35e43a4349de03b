package mqtt

import "errors"

var (
	// ErrNotConnected is returned by publishes while the broker link is down.
	ErrNotConnected = errors.New("mqtt: broker not connected")

	// ErrConnectionFailed wraps the first connect attempt's failure.
	ErrConnectionFailed = errors.New("mqtt: cannot reach broker")

	// ErrPublishFailed wraps a publish the broker did not acknowledge.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidQoS rejects a QoS outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: qos must be 0, 1 or 2")

	// ErrInvalidTopic rejects an empty topic.
	ErrInvalidTopic = errors.New("mqtt: empty topic")
)
