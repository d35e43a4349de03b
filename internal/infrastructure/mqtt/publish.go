package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// Publish sends a message to topic.
//
// QoS Levels:
//   - 0: At most once (fire and forget)
//   - 1: At least once (guaranteed delivery, may duplicate)
//   - 2: Exactly once (guaranteed, no duplicates, higher overhead)
//
// Retained messages are stored by the broker and delivered to new
// subscribers. Use them for state, not for events.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishJSON marshals v and publishes it with the configured QoS.
func (c *Client) PublishJSON(topic string, v any, retained bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshalling payload: %w", ErrPublishFailed, err)
	}
	return c.Publish(topic, data, byte(c.cfg.QoS), retained)
}

// hostStateMessage is the body of the state topic.
type hostStateMessage struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp string `json:"timestamp"`
}

// gameStateMessage is the body of the gamestate topic.
type gameStateMessage struct {
	State     map[string]any `json:"state"`
	Timestamp string         `json:"timestamp"`
}

// PublishHostState publishes a host connection-state transition, retained
// so late subscribers see where the inspector stands.
func (c *Client) PublishHostState(from, to string) error {
	return c.PublishJSON(c.topics.State(), hostStateMessage{
		From:      from,
		To:        to,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, true)
}

// PublishGameState publishes a game-state snapshot. It satisfies the
// inspector's game-state sink.
func (c *Client) PublishGameState(ctx context.Context, state map[string]any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return c.PublishJSON(c.topics.GameState(), gameStateMessage{
		State:     state,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, true)
}
