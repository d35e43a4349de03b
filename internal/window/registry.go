package window

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Handle is the registry's record of one live window.
type Handle struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	OpenedAt time.Time `json:"opened_at"`

	window Window
}

// Window returns the underlying window.
func (h *Handle) Window() Window { return h.window }

// OnCloseFunc is called once per handle after the registry observes its
// window closed.
type OnCloseFunc func(kind Kind, id string)

// OnOpenFunc is called after a new window has been registered.
type OnOpenFunc func(h *Handle)

// Registry tracks at most one live window per Kind.
//
// All public methods are thread-safe. Callbacks and window methods are
// invoked without the registry lock held.
type Registry struct {
	launcher Launcher

	openMu sync.Mutex // Serialises Open so a kind is never launched twice

	mu      sync.RWMutex // Protects handles and callbacks
	handles map[Kind]*Handle
	onClose OnCloseFunc
	onOpen  OnOpenFunc

	notify chan struct{} // Signalled when a window's Done fires
	logger Logger
}

// NewRegistry creates a registry that creates windows with launcher.
func NewRegistry(launcher Launcher) *Registry {
	return &Registry{
		launcher: launcher,
		handles:  make(map[Kind]*Handle),
		notify:   make(chan struct{}, 1),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetOnClose registers the callback fired when a window is observed closed.
func (r *Registry) SetOnClose(fn OnCloseFunc) {
	r.mu.Lock()
	r.onClose = fn
	r.mu.Unlock()
}

// SetOnOpen registers the callback fired when a window is opened.
func (r *Registry) SetOnOpen(fn OnOpenFunc) {
	r.mu.Lock()
	r.onOpen = fn
	r.mu.Unlock()
}

// Open returns the live handle for kind, creating the window if none is
// live. opened is false when an existing live window was returned.
func (r *Registry) Open(ctx context.Context, kind Kind) (h *Handle, opened bool, err error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, false, err
	}
	if r.launcher == nil {
		return nil, false, ErrNoLauncher
	}

	r.openMu.Lock()
	defer r.openMu.Unlock()

	// A handle whose window closed without being polled yet is stale.
	r.PollLiveness()

	r.mu.RLock()
	existing, ok := r.handles[kind]
	r.mu.RUnlock()
	if ok {
		r.logger.Debug("window already open", "kind", kind, "id", existing.ID)
		return existing, false, nil
	}

	w, err := r.launcher.Launch(ctx, kind)
	if err != nil {
		return nil, false, fmt.Errorf("launching %s window: %w", kind, err)
	}

	h = &Handle{
		ID:       uuid.NewString(),
		Kind:     kind,
		OpenedAt: time.Now().UTC(),
		window:   w,
	}

	r.mu.Lock()
	r.handles[kind] = h
	onOpen := r.onOpen
	r.mu.Unlock()

	go r.watchDone(w)

	r.logger.Info("window opened", "kind", kind, "id", h.ID)

	if onOpen != nil {
		onOpen(h)
	}

	if l, ok := w.(Loader); ok {
		if err := l.Loaded(ctx); err != nil {
			r.logger.Warn("window start-up failed", "kind", kind, "error", err)
		}
	}

	return h, true, nil
}

// watchDone nudges Watch as soon as w closes.
func (r *Registry) watchDone(w Window) {
	<-w.Done()
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Lookup returns the live handle for kind.
// A handle whose window has closed but has not yet been polled is not live.
func (r *Registry) Lookup(kind Kind) (*Handle, bool) {
	r.mu.RLock()
	h, ok := r.handles[kind]
	r.mu.RUnlock()

	if !ok || h.window.Closed() {
		return nil, false
	}
	return h, true
}

// IsOpen reports whether kind has a live window.
func (r *Registry) IsOpen(kind Kind) bool {
	_, ok := r.Lookup(kind)
	return ok
}

// Handles returns the live handles in kind order.
func (r *Registry) Handles() []*Handle {
	out := make([]*Handle, 0, len(allKinds))
	for _, k := range allKinds {
		if h, ok := r.Lookup(k); ok {
			out = append(out, h)
		}
	}
	return out
}

// PollLiveness clears every handle whose window has closed and fires the
// on-close callback for each. Handles of other kinds are untouched.
// It returns the kinds that were cleared.
func (r *Registry) PollLiveness() []Kind {
	r.mu.Lock()
	var closed []*Handle
	for kind, h := range r.handles {
		if h.window.Closed() {
			closed = append(closed, h)
			delete(r.handles, kind)
		}
	}
	onClose := r.onClose
	r.mu.Unlock()

	kinds := make([]Kind, 0, len(closed))
	for _, h := range closed {
		kinds = append(kinds, h.Kind)
		r.logger.Info("window closed", "kind", h.Kind, "id", h.ID)
		if onClose != nil {
			onClose(h.Kind, h.ID)
		}
	}
	return kinds
}

// Watch polls liveness every interval, and immediately whenever a window
// signals closure, until ctx is cancelled.
func (r *Registry) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.PollLiveness()
		case <-r.notify:
			r.PollLiveness()
		}
	}
}

// Close closes the window of kind if it is live.
func (r *Registry) Close(kind Kind) error {
	h, ok := r.Lookup(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTargetWindow, kind)
	}
	if err := h.window.Close(); err != nil {
		return fmt.Errorf("closing %s window: %w", kind, err)
	}
	r.PollLiveness()
	return nil
}

// CloseAll closes every live window. Every window is attempted even if
// some fail; the failures are joined.
func (r *Registry) CloseAll() error {
	r.mu.RLock()
	handles := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	var errs []error
	for _, h := range handles {
		if err := h.window.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s window: %w", h.Kind, err))
		}
	}

	r.mu.Lock()
	for _, h := range handles {
		if cur, ok := r.handles[h.Kind]; ok && cur == h {
			delete(r.handles, h.Kind)
		}
	}
	onClose := r.onClose
	r.mu.Unlock()

	if onClose != nil {
		for _, h := range handles {
			onClose(h.Kind, h.ID)
		}
	}

	return errors.Join(errs...)
}
