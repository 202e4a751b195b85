package backlight

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ScheduleConfig sets daily panel hours, both times "HH:MM" 24-hour.
// The panel is lit from On until Off; a window that crosses midnight
// (e.g. on 18:00, off 06:00) works as expected. The keys avoid bare
// on/off, which YAML reads as booleans.
type ScheduleConfig struct {
	On  string `yaml:"on_at"`  // e.g. "07:30"
	Off string `yaml:"off_at"` // e.g. "22:00"
}

// Schedule turns the backlight off and on at configured times of day.
type Schedule struct {
	bl     Backlight
	onAt   int // minutes since midnight
	offAt  int
	clock  clockwork.Clock
	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	lit *bool // last state applied, nil before the first check
}

// NewSchedule builds a Schedule from config. Returns nil if no times are
// configured. A nil clock selects the real one.
func NewSchedule(cfg ScheduleConfig, bl Backlight, clock clockwork.Clock) (*Schedule, error) {
	if cfg.On == "" && cfg.Off == "" {
		return nil, nil
	}
	if cfg.On == "" || cfg.Off == "" {
		return nil, fmt.Errorf("backlight schedule needs both on and off times")
	}

	onAt, err := parseClock(cfg.On)
	if err != nil {
		return nil, fmt.Errorf("backlight schedule on time: %w", err)
	}
	offAt, err := parseClock(cfg.Off)
	if err != nil {
		return nil, fmt.Errorf("backlight schedule off time: %w", err)
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Schedule{
		bl:     bl,
		onAt:   onAt,
		offAt:  offAt,
		clock:  clock,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start begins enforcing the schedule.
// This should be called as a goroutine.
func (s *Schedule) Start() {
	log.Info().
		Str("on", clockString(s.onAt)).
		Str("off", clockString(s.offAt)).
		Msg("backlight: schedule active")

	ticker := s.clock.NewTicker(time.Minute)
	defer ticker.Stop()

	s.apply()
	for {
		select {
		case <-ticker.Chan():
			s.apply()
		case <-s.ctx.Done():
			return
		}
	}
}

// Stop ends schedule enforcement. The panel is left in its current state.
func (s *Schedule) Stop() {
	s.cancel()
}

// apply switches the panel if the schedule state changed since the last
// check. The first check always switches.
func (s *Schedule) apply() {
	now := s.clock.Now()
	want := lit(now.Hour()*60+now.Minute(), s.onAt, s.offAt)

	s.mu.Lock()
	changed := s.lit == nil || *s.lit != want
	s.lit = &want
	s.mu.Unlock()

	if !changed {
		return
	}

	var err error
	if want {
		log.Info().Msg("backlight: schedule on")
		err = s.bl.On()
	} else {
		log.Info().Msg("backlight: schedule off")
		err = s.bl.Off()
	}
	if err != nil {
		log.Error().Err(err).Msg("backlight: switching failed")
	}
}

// lit reports whether minute-of-day m falls in the lit window. Equal on
// and off times mean always lit.
func lit(m, onAt, offAt int) bool {
	if onAt == offAt {
		return true
	}
	if onAt < offAt {
		return m >= onAt && m < offAt
	}
	return m >= onAt || m < offAt
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hh*60 + mm, nil
}

func clockString(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
