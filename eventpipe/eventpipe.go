// Package eventpipe accepts slideshow commands over a named pipe, so
// shell scripts and cron jobs can drive the frame without MQTT:
//
//	echo next > /tmp/piframe-events
//	echo "effect fade" > /tmp/piframe-events
//
// Lines use the textual command protocol from the input package. Blank
// lines and lines starting with "#" are ignored.
package eventpipe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"piframe/input"
)

// Config holds configuration for the event pipe.
type Config struct {
	Path string `yaml:"path"` // Path to named pipe (e.g., "/tmp/piframe-events")
}

// Handler is called for each command read from the pipe.
type Handler func(input.Command)

// EventPipe listens for commands on a named pipe.
type EventPipe struct {
	path    string
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a new EventPipe. Returns nil if path is empty.
func New(cfg Config, handler Handler) (*EventPipe, error) {
	if cfg.Path == "" {
		return nil, nil
	}

	// Remove existing pipe if it exists
	os.Remove(cfg.Path)

	// Create the named pipe
	if err := syscall.Mkfifo(cfg.Path, 0666); err != nil {
		return nil, fmt.Errorf("create named pipe %s: %w", cfg.Path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPipe{
		path:    cfg.Path,
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
	}

	return ep, nil
}

// Start begins listening for commands on the pipe.
// This should be called as a goroutine.
func (ep *EventPipe) Start() {
	log.Info().Str("path", ep.path).Msg("eventpipe: listening")

	for {
		select {
		case <-ep.ctx.Done():
			return
		default:
		}

		// Open pipe for reading (blocks until a writer connects)
		file, err := os.OpenFile(ep.path, os.O_RDONLY, 0)
		if err != nil {
			if ep.ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("path", ep.path).Msg("eventpipe: open failed")
			continue
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			select {
			case <-ep.ctx.Done():
				file.Close()
				return
			default:
			}

			cmd, ok := accept(scanner.Text())
			if !ok {
				continue
			}

			if ep.handler != nil {
				ep.handler(cmd)
			}
		}

		file.Close()
		// Writer closed the pipe, loop back to wait for the next writer
	}
}

// Close stops the event pipe listener and removes the pipe.
func (ep *EventPipe) Close() error {
	ep.cancel()
	return os.Remove(ep.path)
}

// accept parses one pipe line, filtering blanks and "#" comments.
func accept(line string) (input.Command, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return input.Command{}, false
	}

	cmd, err := input.Parse(trimmed)
	if err != nil {
		log.Warn().Err(err).Str("line", trimmed).Msg("eventpipe: ignoring line")
		return input.Command{}, false
	}

	return cmd, true
}
