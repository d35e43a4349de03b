package window

import "sync"

// Base implements the lifecycle half of Window. Concrete windows embed it.
type Base struct {
	kind      Kind
	done      chan struct{}
	closeOnce sync.Once
}

// NewBase creates an open Base for kind.
func NewBase(kind Kind) *Base {
	return &Base{
		kind: kind,
		done: make(chan struct{}),
	}
}

// Kind returns the window kind.
func (b *Base) Kind() Kind { return b.kind }

// Close marks the window closed.
func (b *Base) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}

// Closed reports whether Close has been called.
func (b *Base) Closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Done is closed by Close.
func (b *Base) Done() <-chan struct{} { return b.done }
