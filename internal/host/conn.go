package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
)

// handshakeFrames is the number of frames Connect queues before the write
// pump gets a chance to run. The send buffer is never smaller.
const handshakeFrames = 2

// State is the connection lifecycle state.
type State int

// Connection states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateRegistered
	StateReady
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateRegistered:
		return "registered"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// usable reports whether sends are accepted in this state.
func (s State) usable() bool {
	return s == StateRegistered || s == StateReady
}

// Logger defines the logging interface used by Conn.
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

// Handler receives decoded inbound events. Calls are made from the
// connection's read goroutine, one at a time, in arrival order.
type Handler interface {
	// HandleHostSettings is called after the instance record was replaced.
	HandleHostSettings(ctx context.Context, record settings.Record)

	// HandleHostGlobalSettings is called after the pushed fields were
	// merged into the global snapshot. record is the pushed partial.
	HandleHostGlobalSettings(ctx context.Context, record settings.Record)

	// HandlePluginMessage receives a sendToPropertyInspector payload
	// together with its inner event tag.
	HandlePluginMessage(ctx context.Context, event string, payload json.RawMessage)
}

// Store is the settings storage Conn reads and writes.
type Store interface {
	Settings() settings.Record
	Replace(record settings.Record)
	Merge(partial settings.Record) settings.Record
	MergeGlobal(partial settings.Record) settings.Record
}

// StateFunc is notified of every state transition.
type StateFunc func(from, to State)

// Conn is the inspector's socket to the host.
//
// All public methods are thread-safe.
type Conn struct {
	cfg    config.HostConfig
	reg    Registration
	store  Store
	dialer *websocket.Dialer

	mu       sync.Mutex // Protects state, ws, instance, handler, onState
	state    State
	ws       *websocket.Conn
	instance settings.Instance
	handler  Handler
	onState  StateFunc

	// writeMu makes merge-then-send atomic so two concurrent SetSettings
	// calls cannot send their full records out of order.
	writeMu sync.Mutex

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error

	logger Logger
}

// NewConn creates a connection for reg. Nothing is dialled until Connect.
func NewConn(cfg config.HostConfig, reg Registration, store Store) *Conn {
	bufSize := cfg.SendBuffer
	if bufSize < handshakeFrames {
		bufSize = handshakeFrames
	}
	return &Conn{
		cfg:   cfg,
		reg:   reg,
		store: store,
		dialer: &websocket.Dialer{
			HandshakeTimeout: time.Duration(cfg.HandshakeTimeout) * time.Second,
		},
		state:    StateDisconnected,
		instance: reg.ActionInfo.Instance(),
		send:     make(chan []byte, bufSize),
		done:     make(chan struct{}),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the connection.
func (c *Conn) SetLogger(logger Logger) {
	c.logger = logger
}

// SetHandler sets the receiver of inbound events.
func (c *Conn) SetHandler(h Handler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// SetOnStateChange registers a state transition callback.
func (c *Conn) SetOnStateChange(fn StateFunc) {
	c.mu.Lock()
	c.onState = fn
	c.mu.Unlock()
}

// State returns the current state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Instance returns the instance this connection configures.
func (c *Conn) Instance() settings.Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance
}

// SetAction records a late-arriving action identifier.
func (c *Conn) SetAction(action string) settings.Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instance.SetAction(action)
	return c.instance
}

// Registration returns the launch arguments.
func (c *Conn) Registration() Registration {
	return c.reg
}

// Done is closed when the connection reaches Closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that closed the connection, if any.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeErr
}

// URL returns the host socket address.
func (c *Conn) URL() string {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(c.cfg.Address, strconv.Itoa(c.reg.Port)),
	}
	return u.String()
}

// Connect dials the host, registers and requests the global settings.
// It returns once both frames are queued; it does not wait for replies.
func (c *Conn) Connect(ctx context.Context) error {
	if !c.transition(StateDisconnected, StateConnecting) {
		return ErrAlreadyConnected
	}

	ws, _, err := c.dialer.DialContext(ctx, c.URL(), nil)
	if err != nil {
		err = fmt.Errorf("dialling host: %w", err)
		c.shutdown(err)
		return err
	}
	if c.cfg.MaxMessageSize > 0 {
		ws.SetReadLimit(int64(c.cfg.MaxMessageSize))
	}

	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()

	c.logger.Info("connected to host", "url", c.URL())

	go c.writePump(ws)
	go c.readPump(ws)

	// The state must be usable before the first enqueue, so Registered is
	// entered optimistically and register is queued first.
	c.setState(StateRegistered)
	if err := c.enqueue(outbound{Event: c.reg.RegisterEvent, UUID: c.reg.InspectorUUID}); err != nil {
		err = fmt.Errorf("registering: %w", err)
		c.shutdown(err)
		return err
	}

	if err := c.enqueue(outbound{Event: EventGetGlobalSettings, Context: c.reg.InspectorUUID}); err != nil {
		err = fmt.Errorf("requesting global settings: %w", err)
		c.shutdown(err)
		return err
	}
	c.setState(StateReady)

	return nil
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	c.shutdown(nil)
	return nil
}

// SendToHost sends payload to the plugin on the instance channel.
// Delivery is at-most-once with no acknowledgement.
func (c *Conn) SendToHost(payload any) error {
	inst := c.Instance()
	return c.enqueue(outbound{
		Event:   EventSendToPlugin,
		Context: inst.Context,
		Action:  inst.Action,
		Payload: payload,
	})
}

// SendGlobalScoped sends payload to the plugin on the inspector's own
// channel, so the reply is delivered as a global-scope event.
func (c *Conn) SendGlobalScoped(payload any) error {
	action := c.Instance().Action
	if action == "" {
		action = c.cfg.DefaultAction
	}
	return c.enqueue(outbound{
		Event:   EventSendToPlugin,
		Context: c.reg.InspectorUUID,
		Action:  action,
		Payload: payload,
	})
}

// SetSettings sends the local record with partial merged in, since the
// host replaces settings wholesale. The local record only changes once
// the frame is queued; a failed send leaves it untouched.
func (c *Conn) SetSettings(partial settings.Record) (settings.Record, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	merged := c.store.Settings().Merge(partial)
	if err := c.enqueue(outbound{
		Event:   EventSetSettings,
		Context: c.Instance().Context,
		Payload: merged,
	}); err != nil {
		return nil, err
	}
	return c.store.Merge(partial), nil
}

// SetGlobalSettings sends record and then merges it into the local global
// snapshot without waiting for the host to echo it back.
func (c *Conn) SetGlobalSettings(record settings.Record) (settings.Record, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.enqueue(outbound{
		Event:   EventSetGlobalSettings,
		Context: c.Instance().Context,
		Payload: record,
	}); err != nil {
		return nil, err
	}
	return c.store.MergeGlobal(record), nil
}

// enqueue encodes frame and queues it for the write pump.
// Frames are written in enqueue order.
func (c *Conn) enqueue(frame outbound) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", frame.Event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.usable() {
		return ErrNotConnected
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// transition moves from -> to only if the current state is from.
func (c *Conn) transition(from, to State) bool {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return false
	}
	c.state = to
	fn := c.onState
	c.mu.Unlock()

	c.logger.Debug("host connection state", "from", from.String(), "to", to.String())
	if fn != nil {
		fn(from, to)
	}
	return true
}

// setState transitions to s and notifies the callback. Closed is terminal.
func (c *Conn) setState(s State) {
	c.mu.Lock()
	from := c.state
	if from == s || from == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = s
	fn := c.onState
	c.mu.Unlock()

	c.logger.Debug("host connection state", "from", from.String(), "to", s.String())
	if fn != nil {
		fn(from, s)
	}
}

// shutdown moves to Closed and tears the socket down once.
func (c *Conn) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closeErr = cause
		ws := c.ws
		c.mu.Unlock()

		c.setState(StateClosed)
		close(c.done)

		if ws != nil {
			//nolint:errcheck // Best-effort close frame
			ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			ws.Close()
		}

		if cause != nil {
			c.logger.Warn("host connection closed", "error", cause)
		} else {
			c.logger.Info("host connection closed")
		}
	})
}

// writePump writes queued frames and keepalive pings.
func (c *Conn) writePump(ws *websocket.Conn) {
	var tick <-chan time.Time
	if c.cfg.PingInterval > 0 {
		ticker := time.NewTicker(time.Duration(c.cfg.PingInterval) * time.Second)
		defer ticker.Stop()
		tick = ticker.C
	}
	writeWait := time.Duration(c.cfg.WriteTimeout) * time.Second
	if writeWait <= 0 {
		writeWait = 5 * time.Second
	}

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			//nolint:errcheck // Best-effort deadline; write error caught below
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.shutdown(fmt.Errorf("writing to host: %w", err))
				return
			}
		case <-tick:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown(fmt.Errorf("pinging host: %w", err))
				return
			}
		}
	}
}

// readPump decodes inbound frames until the socket closes.
func (c *Conn) readPump(ws *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.shutdown(nil)
			} else {
				c.shutdown(fmt.Errorf("reading from host: %w", err))
			}
			return
		}

		if err := c.dispatch(ctx, data); err != nil {
			c.logger.Warn("dropping host message", "error", err)
		}
	}
}

// dispatch decodes one frame and applies it.
func (c *Conn) dispatch(ctx context.Context, data []byte) error {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()

	switch msg.Event {
	case EventDidReceiveSettings:
		record, err := decodeSettings(msg)
		if err != nil || record == nil {
			return err
		}
		c.store.Replace(record)
		if h != nil {
			h.HandleHostSettings(ctx, record)
		}

	case EventDidReceiveGlobalSettings:
		record, err := decodeSettings(msg)
		if err != nil || record == nil {
			return err
		}
		c.store.MergeGlobal(record)
		if h != nil {
			h.HandleHostGlobalSettings(ctx, record)
		}

	case EventSendToPropertyInspector:
		var env envelope
		if len(msg.Payload) == 0 {
			return fmt.Errorf("%w: %s without payload", ErrMalformedMessage, msg.Event)
		}
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedMessage, msg.Event, err)
		}
		if h != nil {
			h.HandlePluginMessage(ctx, env.Event, msg.Payload)
		}

	default:
		c.logger.Debug("ignoring host event", "event", msg.Event)
	}

	return nil
}

// decodeSettings extracts payload.settings. A missing settings object
// yields a nil record, which callers ignore.
func decodeSettings(msg inbound) (settings.Record, error) {
	if len(msg.Payload) == 0 {
		return nil, nil
	}
	var p settingsPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, msg.Event, err)
	}
	return p.Settings, nil
}
