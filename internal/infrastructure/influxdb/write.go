package influxdb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Game-state measurement schema.
const (
	measurementGameState = "dcs_game_state"
	tagDcsID             = "dcs_id"
	fieldValue           = "value"
)

// PublishGameState queues one point per numeric entry of state and
// schedules a flush of the burst. It satisfies the inspector's game-state
// sink and never blocks on the network.
func (c *Client) PublishGameState(ctx context.Context, state map[string]any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	points := gameStatePoints(state, time.Now())
	if len(points) == 0 {
		return nil
	}
	for _, p := range points {
		c.writeAPI.WritePoint(p)
	}
	c.requestFlush()
	return nil
}

// gameStatePoints converts a snapshot into points in dcs_id order.
func gameStatePoints(state map[string]any, ts time.Time) []*write.Point {
	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	points := make([]*write.Point, 0, len(ids))
	for _, id := range ids {
		v, ok := numericValue(state[id])
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		points = append(points, write.NewPoint(
			measurementGameState,
			map[string]string{tagDcsID: id},
			map[string]interface{}{fieldValue: v},
			ts,
		))
	}
	return points
}

// numericValue reports v as a float when it is a number or a string that
// parses as one. The export script sends most gauges as strings.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
