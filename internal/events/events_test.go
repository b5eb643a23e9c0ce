package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeEvent(t *testing.T) {
	raw := MakeEvent("req-1", TypeSearchStarted, map[string]any{"query": "analyst"})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, TypeSearchStarted, e.Type)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, "req-1", e.RequestID)
	assert.JSONEq(t, `{"query":"analyst"}`, string(e.Data))
	assert.False(t, e.At.IsZero())
}

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(b)

	h.Publish("one")
	assert.Equal(t, "one", <-a)
	assert.Equal(t, "one", <-b)

	h.Unsubscribe(a)
	h.Publish("two")
	assert.Equal(t, "two", <-b)
}

func TestHubDropsWhenSlow(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// channel buffer is 10; extra publishes must not block
	for i := 0; i < 25; i++ {
		h.Publish("evt")
	}
	assert.Len(t, ch, 10)
}
