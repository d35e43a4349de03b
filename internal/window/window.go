package window

import (
	"context"

	"github.com/nerrad567/dcs-inspector-core/internal/settings"
)

// Window is a live auxiliary window.
type Window interface {
	Kind() Kind

	// Close closes the window. Closing an already closed window is a no-op.
	Close() error

	// Closed reports whether the window has been closed.
	Closed() bool

	// Done is closed when the window closes.
	Done() <-chan struct{}
}

// Loader is implemented by windows that run start-up work once they are
// registered, such as requesting data from the host.
type Loader interface {
	Loaded(ctx context.Context) error
}

// ModuleReceiver accepts the installed-module list.
type ModuleReceiver interface {
	GotInstalledModules(modules []string)
}

// ClickableDataReceiver accepts raw clickable-data rows.
type ClickableDataReceiver interface {
	GotClickableData(rows []string)
}

// GameStateReceiver accepts the current game state. A nil state means no
// module is running.
type GameStateReceiver interface {
	GotDcsGameState(state map[string]any)
}

// Opener is the inspector side of the channel, as seen from a window.
type Opener interface {
	// Call delivers msg to the opener's dispatch table.
	Call(ctx context.Context, msg Message) error

	// GlobalSettings returns a best-effort snapshot of the shared record.
	GlobalSettings() settings.Record
}

// Launcher creates windows on demand.
type Launcher interface {
	Launch(ctx context.Context, kind Kind) (Window, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, kind Kind) (Window, error)

// Launch calls f(ctx, kind).
func (f LauncherFunc) Launch(ctx context.Context, kind Kind) (Window, error) {
	return f(ctx, kind)
}
