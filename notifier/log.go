package notifier

import (
	"github.com/rs/zerolog/log"

	"piframe/slideshow"
)

// Log mirrors playback state to the structured log.
type Log struct{}

// Controls implements Notifier.Controls.
func (l *Log) Controls(st slideshow.ControlState) {
	log.Info().
		Bool("playing", st.Playing).
		Bool("reversed", st.Reversed).
		Bool("random", st.Random).
		Bool("fullscreen", st.Fullscreen).
		Msg("notifier: controls changed")
}

// Slide implements Notifier.Slide.
func (l *Log) Slide(index int, caption string) {
	log.Info().Int("index", index).Str("caption", caption).Msg("notifier: slide shown")
}

// LoadError implements Notifier.LoadError.
func (l *Log) LoadError(source string, err error) {
	log.Warn().Err(err).Str("source", source).Msg("notifier: image load failed")
}

// Release implements Notifier.Release.
func (l *Log) Release() error {
	return nil
}
