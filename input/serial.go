package input

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tarm/serial"
)

// Serial implements Source for a serial control line (a wall panel or a
// companion microcontroller). Commands are newline-terminated text in the
// shared protocol.
type Serial struct {
	port    io.ReadCloser
	device  string
	pending []byte
}

// NewSerial creates a serial command source. baud 0 selects 115200.
func NewSerial(device string, baud int) (*Serial, error) {
	if baud == 0 {
		baud = 115200
	}
	c := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Second,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}

	log.Info().Str("device", device).Int("baud", baud).Msg("input: serial open")
	return &Serial{port: port, device: device}, nil
}

// nextCommand extracts the first complete command line from buf and
// returns the unconsumed remainder. Blank and unparseable lines are
// skipped.
func nextCommand(buf []byte) (Command, []byte, bool) {
	for {
		idx := bytes.IndexAny(buf, "\r\n")
		if idx < 0 {
			return Command{}, buf, false
		}
		line := string(buf[:idx])
		buf = buf[idx+1:]
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := Parse(line)
		if err != nil {
			log.Warn().Err(err).Str("line", line).Msg("input: bad serial command")
			continue
		}
		return cmd, buf, true
	}
}

// Read implements Source.Read for serial sources. A partial line survives
// across calls.
func (s *Serial) Read(ctx context.Context) (Command, error) {
	buf := make([]byte, 64)

	for {
		cmd, rest, ok := nextCommand(s.pending)
		s.pending = rest
		if ok {
			return cmd, nil
		}

		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		default:
		}

		n, err := s.port.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// A zero-byte timeout read surfaces as EOF, keep waiting.
				continue
			}
			return Command{}, fmt.Errorf("read serial %s: %w", s.device, err)
		}
		if n == 0 {
			// Timeout, keep waiting.
			continue
		}
		s.pending = append(s.pending, buf[:n]...)
	}
}

// Close implements Source.Close.
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}
