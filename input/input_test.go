package input

import (
	"testing"

	"github.com/kenshaw/evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piframe/slideshow"
)

func TestParse(t *testing.T) {
	t.Parallel()
	cases := []struct {
		line string
		want Command
	}{
		{"play", Command{Action: ActionTogglePlay}},
		{"pause", Command{Action: ActionTogglePlay}},
		{"toggle", Command{Action: ActionTogglePlay}},
		{"next", Command{Action: ActionNext}},
		{"prev", Command{Action: ActionPrevious}},
		{"previous", Command{Action: ActionPrevious}},
		{"direction", Command{Action: ActionToggleDirection}},
		{"reverse", Command{Action: ActionToggleDirection}},
		{"random", Command{Action: ActionToggleRandom}},
		{"shuffle", Command{Action: ActionToggleRandom}},
		{"fullscreen", Command{Action: ActionToggleFullscreen}},
		{"fill", Command{Action: ActionToggleFullscreen}},
		{"effect fade", Command{Action: ActionSelectEffect, Effect: "fade"}},
		{"effect slide-horizontal", Command{Action: ActionSelectEffect, Effect: "slide-horizontal"}},
		{"  NEXT  ", Command{Action: ActionNext}},
		{"Effect FADE", Command{Action: ActionSelectEffect, Effect: "fade"}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.line, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(c.line)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()
	for _, line := range []string{"", "   ", "launch", "effect", "nextprev"} {
		_, err := Parse(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestNewUnknownType(t *testing.T) {
	t.Parallel()
	_, err := New(Config{Type: "telepathy"})
	require.Error(t, err)
	_, err = New(Config{})
	require.Error(t, err)
}

func TestKeyCommandMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		key  evdev.KeyType
		want Command
	}{
		{evdev.KeySpace, Command{Action: ActionTogglePlay}},
		{evdev.KeyRight, Command{Action: ActionNext}},
		{evdev.KeyLeft, Command{Action: ActionPrevious}},
		{evdev.KeyD, Command{Action: ActionToggleDirection}},
		{evdev.KeyR, Command{Action: ActionToggleRandom}},
		{evdev.KeyF, Command{Action: ActionToggleFullscreen}},
		{evdev.Key1, Command{Action: ActionSelectEffect, Effect: slideshow.EffectNone}},
		{evdev.Key2, Command{Action: ActionSelectEffect, Effect: slideshow.EffectFade}},
		{evdev.Key3, Command{Action: ActionSelectEffect, Effect: slideshow.EffectSlideHorizontal}},
		{evdev.Key4, Command{Action: ActionSelectEffect, Effect: slideshow.EffectSlideVertical}},
	}
	for _, c := range cases {
		got, ok := keyCommand(c.key)
		require.True(t, ok, "key %s unmapped", c.key)
		assert.Equal(t, c.want, got)
	}

	_, ok := keyCommand(evdev.KeyEnter)
	assert.False(t, ok, "unmapped keys are ignored")
}

func TestNextCommand(t *testing.T) {
	t.Parallel()

	cmd, rest, ok := nextCommand([]byte("next\nprev\n"))
	require.True(t, ok)
	assert.Equal(t, ActionNext, cmd.Action)
	assert.Equal(t, "prev\n", string(rest))

	cmd, rest, ok = nextCommand(rest)
	require.True(t, ok)
	assert.Equal(t, ActionPrevious, cmd.Action)
	assert.Empty(t, rest)

	// Partial line waits for more bytes.
	_, rest, ok = nextCommand([]byte("nex"))
	assert.False(t, ok)
	assert.Equal(t, "nex", string(rest))

	// Bad and blank lines are skipped, the good one after them wins.
	cmd, rest, ok = nextCommand([]byte("\r\nbogus\r\neffect fade\r\ntrailing"))
	require.True(t, ok)
	assert.Equal(t, Command{Action: ActionSelectEffect, Effect: "fade"}, cmd)
	assert.Equal(t, "trailing", string(rest))
}

func TestActionString(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, a := range []Action{
		ActionNone, ActionTogglePlay, ActionNext, ActionPrevious,
		ActionToggleDirection, ActionToggleRandom, ActionToggleFullscreen,
		ActionSelectEffect,
	} {
		s := a.String()
		assert.NotEmpty(t, s)
		assert.False(t, seen[s], "duplicate action name %q", s)
		seen[s] = true
	}
}
