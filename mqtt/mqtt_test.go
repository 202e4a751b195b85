package mqtt

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutHostDisabled(t *testing.T) {
	t.Parallel()

	c, err := New(Config{}, "frame-1", Handlers{})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.False(t, c.IsEnabled())
}

func TestDisabledClientNoOps(t *testing.T) {
	t.Parallel()

	connected := false
	c, err := New(Config{}, "frame-1", Handlers{
		OnConnect: func() { connected = true },
	})
	require.NoError(t, err)

	// Connect reports success and fires the handler so startup proceeds
	// as if a broker answered.
	require.NoError(t, c.Connect())
	assert.True(t, connected)

	// The paho client is never constructed, so these have nothing to
	// touch and nothing to fail on.
	assert.NoError(t, c.Subscribe("frame/control/node/frame-1/command"))
	assert.NoError(t, c.Publish("frame/status/node/frame-1/ping", false, []byte("ping")))
	assert.NotPanics(t, c.Disconnect)
}

func TestDisabledConnectWithoutHandler(t *testing.T) {
	t.Parallel()

	c, err := New(Config{}, "frame-1", Handlers{})
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		require.NoError(t, c.Connect())
	})
}

func TestNewWithHostEnabled(t *testing.T) {
	t.Parallel()

	c, err := New(Config{Host: "broker.local"}, "frame-1", Handlers{})
	require.NoError(t, err)
	assert.True(t, c.IsEnabled())
}

func TestNewBadCACert(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Host:   "broker.local",
		Port:   8883,
		CACert: filepath.Join(t.TempDir(), "absent.pem"),
	}
	_, err := New(cfg, "frame-1", Handlers{})
	require.ErrorContains(t, err, "build TLS config")
}

func TestPahoLoggerLevels(t *testing.T) {
	// Swaps the global logger, so no t.Parallel.
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = orig }()

	pahoLogger{level: zerolog.WarnLevel}.Println("store abandoned")
	pahoLogger{level: zerolog.ErrorLevel}.Printf("lost connection to %s", "broker.local")

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "mqtt: store abandoned")
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, "mqtt: lost connection to broker.local")
}
