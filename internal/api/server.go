package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"
	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/logging"
	"github.com/nerrad567/dcs-inspector-core/internal/inspector"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Controller is the inspector surface the API drives. *inspector.Inspector
// implements it.
type Controller interface {
	Snapshot() inspector.Snapshot
	Subscribe(fn inspector.EventFunc)

	SetFields(fields settings.Record) (settings.Record, error)
	SetGlobal(partial settings.Record) (settings.Record, error)
	SetAction(action string) (settings.Instance, error)
	SetMappings(mappings []settings.ValueMapping) (settings.Record, error)
	Mappings() []settings.ValueMapping

	ClearCommand() (settings.Record, error)
	ClearCompareMonitor() (settings.Record, error)
	ClearStringMonitor() (settings.Record, error)
	ClearIncrementMonitor() (settings.Record, error)

	OpenWindow(ctx context.Context, kind string) (*window.Handle, bool, error)
	CloseWindows() error
	WindowView(kind string) (any, error)
	Act(ctx context.Context, kind string, intent inspector.Intent) error

	SendToPlugin(payload json.RawMessage) error
}

// HealthChecker is a component whose liveness GET /health reports.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

var _ Controller = (*inspector.Inspector)(nil)

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	Logger    *logging.Logger
	Inspector Controller
	Version   string

	// Checks are reported by GET /health, keyed by component name.
	Checks map[string]HealthChecker
}

// Server is the HTTP control surface for one inspector.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	inspector Controller
	version   string
	server    *http.Server
	listener  net.Listener
	hub       *Hub
	checks    map[string]HealthChecker
	cancel    context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Inspector == nil {
		return nil, fmt.Errorf("inspector is required")
	}

	checks := make(map[string]HealthChecker, len(deps.Checks))
	for name, c := range deps.Checks {
		checks[name] = c
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		inspector: deps.Inspector,
		version:   deps.Version,
		checks:    checks,
	}, nil
}

// Start binds the listener, starts the WebSocket hub, relays inspector
// events to it and serves HTTP in a background goroutine. The server can be
// stopped with Close().
//
// Returns:
//   - error: If the listener cannot be bound (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding API listener on %s: %w", addr, err)
	}
	s.listener = ln

	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.cfg.WebSocket, s.logger)
	go s.hub.Run(srvCtx)
	s.inspector.Subscribe(s.hub.Broadcast)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
