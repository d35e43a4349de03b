package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// Client is the game-state sink backed by InfluxDB.
//
// Points are queued on the client library's non-blocking write API. Each
// snapshot is one burst: PublishGameState asks a background goroutine to
// flush it, so the diagnostics refresh a user triggers lands in the bucket
// right away instead of waiting for the batch interval. The goroutine
// coalesces requests, and the caller never blocks on the network.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	mu        sync.RWMutex
	connected bool
	onError   func(err error)

	flushReq  chan struct{}
	stop      chan struct{}
	flushDone chan struct{}
	closeOnce sync.Once
}

// Connect pings the server and starts the sink. It returns ErrDisabled
// when the integration is switched off.
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, writeOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := ping(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, cfg.URL, err)
	}

	c := &Client{
		client:    client,
		writeAPI:  client.WriteAPI(cfg.Org, cfg.Bucket),
		connected: true,
		flushReq:  make(chan struct{}, 1),
		stop:      make(chan struct{}),
		flushDone: make(chan struct{}),
	}
	go c.relayErrors(c.writeAPI.Errors())
	go c.flushLoop()

	return c, nil
}

// writeOptions maps the batch settings, falling back to the defaults for
// unset values.
func writeOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batch := uint(defaultBatchSize)
	if cfg.BatchSize > 0 {
		batch = uint(cfg.BatchSize)
	}
	interval := defaultFlushInterval
	if cfg.FlushInterval > 0 {
		interval = time.Duration(cfg.FlushInterval) * time.Second
	}

	return influxdb2.DefaultOptions().
		SetBatchSize(batch).
		SetFlushInterval(uint(interval.Milliseconds()))
}

func ping(ctx context.Context, client influxdb2.Client) error {
	healthy, err := client.Ping(ctx)
	if err != nil {
		return err
	}
	if !healthy {
		return errUnhealthy
	}
	return nil
}

// relayErrors hands asynchronous write failures to the error callback.
func (c *Client) relayErrors(errs <-chan error) {
	for err := range errs {
		c.mu.RLock()
		fn := c.onError
		c.mu.RUnlock()

		if fn != nil {
			fn(fmt.Errorf("%w: %w", ErrWriteFailed, err))
		}
	}
}

// flushLoop flushes once per request until Close.
func (c *Client) flushLoop() {
	defer close(c.flushDone)
	for {
		select {
		case <-c.stop:
			return
		case <-c.flushReq:
			c.Flush()
		}
	}
}

// requestFlush schedules a flush. Requests made while one is pending
// collapse into it.
func (c *Client) requestFlush() {
	select {
	case c.flushReq <- struct{}{}:
	default:
	}
}

// Close stops the flush goroutine, writes what is still queued and closes
// the client. It is safe to call more than once and on a zero Client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.flushDone

		c.writeAPI.Flush()

		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()

		c.client.Close()
	})
	return nil
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := ping(ctx, c.client); err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	return nil
}

// IsConnected reports whether the sink is open. It does not ping.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SetOnError sets the callback for asynchronous write failures.
func (c *Client) SetOnError(callback func(err error)) {
	c.mu.Lock()
	c.onError = callback
	c.mu.Unlock()
}

// Flush writes every queued point and blocks until done. It is a no-op
// once the sink is closed.
func (c *Client) Flush() {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}
