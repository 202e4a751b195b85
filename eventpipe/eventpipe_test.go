package eventpipe

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"piframe/input"
)

func TestAcceptFiltersAndParses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want input.Command
		ok   bool
	}{
		{"next", input.Command{Action: input.ActionNext}, true},
		{"  play  ", input.Command{Action: input.ActionTogglePlay}, true},
		{"\teffect slide-vertical\r", input.Command{Action: input.ActionSelectEffect, Effect: "slide-vertical"}, true},
		{"", input.Command{}, false},
		{"   ", input.Command{}, false},
		{"# a comment", input.Command{}, false},
		{"#next", input.Command{}, false},
		{"launch missiles", input.Command{}, false},
	}

	for _, c := range cases {
		got, ok := accept(c.line)
		require.Equal(t, c.ok, ok, "line %q", c.line)
		require.Equal(t, c.want, got, "line %q", c.line)
	}
}

func TestNewEmptyPathDisabled(t *testing.T) {
	t.Parallel()

	ep, err := New(Config{}, nil)
	require.NoError(t, err)
	require.Nil(t, ep)
}

func TestPipeDeliversCommands(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "events")

	var mu sync.Mutex
	var got []input.Command
	ep, err := New(Config{Path: path}, func(cmd input.Command) {
		mu.Lock()
		got = append(got, cmd)
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NotNil(t, ep)

	go ep.Start()

	// Opening the write end blocks until the listener has the read end open.
	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = w.WriteString("play\n# ignored\nnext\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	require.Equal(t, input.ActionTogglePlay, got[0].Action)
	require.Equal(t, input.ActionNext, got[1].Action)
	mu.Unlock()

	require.NoError(t, ep.Close())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
