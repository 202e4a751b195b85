package notifier

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piframe/slideshow"
)

type publishCall struct {
	topic   string
	retain  bool
	payload []byte
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) Publish(topic string, retain bool, payload []byte) error {
	f.calls = append(f.calls, publishCall{topic: topic, retain: retain, payload: payload})
	return f.err
}

func TestNewSelectsSinks(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{}

	assert.IsType(t, &Noop{}, New(Config{}, pub, "frame"))
	assert.IsType(t, &Log{}, New(Config{Log: true}, pub, "frame"))
	assert.IsType(t, &MQTT{}, New(Config{MQTT: true}, pub, "frame"))
	assert.IsType(t, &Multi{}, New(Config{Log: true, MQTT: true}, pub, "frame"))

	// MQTT without a transport falls back to the remaining sinks.
	assert.IsType(t, &Log{}, New(Config{Log: true, MQTT: true}, nil, "frame"))
	assert.IsType(t, &Noop{}, New(Config{MQTT: true}, nil, "frame"))
}

func TestMQTTControlsPayload(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{}
	n := NewMQTT(pub, "frame/status/node/librarypi")

	n.Controls(slideshow.ControlState{Playing: true, Random: true, RandomEnabled: true})

	require.Len(t, pub.calls, 1)
	call := pub.calls[0]
	assert.Equal(t, "frame/status/node/librarypi/state/controls", call.topic)
	assert.True(t, call.retain, "control state is retained for late subscribers")

	var got map[string]any
	require.NoError(t, json.Unmarshal(call.payload, &got))
	assert.Equal(t, true, got["playing"])
	assert.Equal(t, true, got["random"])
	assert.Equal(t, false, got["reversed"])
	assert.Equal(t, true, got["random_enabled"])
}

func TestMQTTSlideAndLoadError(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{}
	n := NewMQTT(pub, "frame")

	n.Slide(3, "beach day")
	n.LoadError("broken.jpg", errors.New("decode: bad header"))

	require.Len(t, pub.calls, 2)
	assert.Equal(t, "frame/state/slide", pub.calls[0].topic)
	assert.JSONEq(t, `{"index":3,"caption":"beach day"}`, string(pub.calls[0].payload))

	assert.Equal(t, "frame/state/load_error", pub.calls[1].topic)
	assert.False(t, pub.calls[1].retain, "load errors are transient, not retained")
	assert.JSONEq(t, `{"source":"broken.jpg","error":"decode: bad header"}`, string(pub.calls[1].payload))
}

func TestMQTTPublishErrorSwallowed(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{err: errors.New("connection lost")}
	n := NewMQTT(pub, "frame")

	assert.NotPanics(t, func() { n.Slide(0, "still alive") })
	assert.NoError(t, n.Release())
}

func TestMultiFansOut(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{}
	m := &Multi{notifiers: []Notifier{&Noop{}, NewMQTT(pub, "a"), NewMQTT(pub, "b")}}

	m.Slide(1, "x")
	require.Len(t, pub.calls, 2)
	assert.Equal(t, "a/state/slide", pub.calls[0].topic)
	assert.Equal(t, "b/state/slide", pub.calls[1].topic)

	m.Controls(slideshow.ControlState{})
	m.LoadError("f.jpg", errors.New("x"))
	assert.Len(t, pub.calls, 6)
	assert.NoError(t, m.Release())
}
