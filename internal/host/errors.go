package host

import "errors"

// Domain errors for the host package.
var (
	// ErrNotConnected is returned when a send is attempted while the
	// connection is not Registered or Ready. Sends are never queued or
	// retried.
	ErrNotConnected = errors.New("host: not connected")

	// ErrMalformedMessage is returned when an inbound frame cannot be
	// decoded. The frame is logged and dropped.
	ErrMalformedMessage = errors.New("host: malformed message")

	// ErrAlreadyConnected is returned when Connect is called more than once.
	ErrAlreadyConnected = errors.New("host: already connected")

	// ErrInvalidRegistration is returned when launch arguments are missing
	// or malformed.
	ErrInvalidRegistration = errors.New("host: invalid registration")

	// ErrSendBufferFull is returned when the outbound queue is full.
	ErrSendBufferFull = errors.New("host: send buffer full")
)
