package slideshow

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ErrStartupTimeout is returned by Start when the store does not become
// ready within the configured ceiling.
var ErrStartupTimeout = errors.New("images not ready before startup timeout")

// State is the engine's scheduling state.
type State int

const (
	// StateIdle means no timer is armed.
	StateIdle State = iota
	// StateAutoplaying means the autoplay interval timer is armed and the
	// next target is chosen when it fires.
	StateAutoplaying
	// StateTransitioning means an animation tick timer is armed and a
	// strategy is stepping toward a fixed target.
	StateTransitioning
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAutoplaying:
		return "autoplaying"
	case StateTransitioning:
		return "transitioning"
	}
	return "unknown"
}

// Config holds the playback timing and strategy settings.
type Config struct {
	Interval       time.Duration // autoplay period between slides
	Tick           time.Duration // animation frame period
	FadeStep       float64       // opacity delta per fade tick
	SlideStep      int           // pixels per slide tick
	Effect         string        // initial effect name
	Autoplay       bool          // start playing after Start
	StartupTimeout time.Duration // ceiling for the image preload wait
	PollInterval   time.Duration // readiness recheck period
}

// UnmarshalYAML decodes the slideshow config section. Time fields are Go
// duration strings ("3s", "750ms"), which plain YAML cannot express.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		Interval       string  `yaml:"interval"`
		Tick           string  `yaml:"tick"`
		FadeStep       float64 `yaml:"fade_step"`
		SlideStep      int     `yaml:"slide_step"`
		Effect         string  `yaml:"effect"`
		Autoplay       bool    `yaml:"autoplay"`
		StartupTimeout string  `yaml:"startup_timeout"`
		PollInterval   string  `yaml:"poll_interval"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	parse := func(field, s string) (time.Duration, error) {
		if s == "" {
			return 0, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("slideshow %s: %w", field, err)
		}
		return d, nil
	}

	var err error
	if c.Interval, err = parse("interval", raw.Interval); err != nil {
		return err
	}
	if c.Tick, err = parse("tick", raw.Tick); err != nil {
		return err
	}
	if c.StartupTimeout, err = parse("startup_timeout", raw.StartupTimeout); err != nil {
		return err
	}
	if c.PollInterval, err = parse("poll_interval", raw.PollInterval); err != nil {
		return err
	}
	c.FadeStep = raw.FadeStep
	c.SlideStep = raw.SlideStep
	c.Effect = raw.Effect
	c.Autoplay = raw.Autoplay
	return nil
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 3 * time.Second
	}
	if c.Tick <= 0 {
		c.Tick = 30 * time.Millisecond
	}
	if c.FadeStep <= 0 {
		c.FadeStep = 0.05
	}
	if c.SlideStep <= 0 {
		c.SlideStep = 20
	}
	if c.Effect == "" {
		c.Effect = EffectNone
	}
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = 10 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 200 * time.Millisecond
	}
	return c
}

// Handlers holds callbacks for state the UI layer mirrors. Both are
// optional and both are invoked outside the engine lock, so they may call
// back into the engine.
type Handlers struct {
	// OnControls fires after any toggle actually changes control state.
	OnControls func(ControlState)
	// OnSlide fires after a strategy commits a new current slide.
	OnSlide func(index int, caption string)
}

type slideEvent struct {
	index   int
	caption string
}

// Engine owns the playback schedule: it is the single source of truth for
// what happens on the next tick and the sole owner of the timer slot.
//
// # Locking
//
// One mutex serializes every operation, timer callbacks included. A tick
// that is already executing always completes its one unit of work;
// cancellation is cancel-before-reschedule, and a callback that lost that
// race re-checks its generation under the lock and discards itself.
// Handler callbacks always run after the lock is released.
//
// # Timer slot
//
// At most one timer is ever live. Autoplay and every animation frame share
// the slot; arming it cancels the previous handle first. Two live timers
// would double-step animations, so the generation check backs up Stop for
// callbacks already in flight.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	store    *Store
	surface  Surface
	controls *Controls
	handlers Handlers
	clock    clockwork.Clock

	effects    map[string]Effect
	effectName string

	current int // -1 until the first draw
	state   State

	timer     clockwork.Timer
	timerGen  uint64
	committed *slideEvent // set by strategy commit, drained after unlock
}

// New creates an engine for one slideshow instance. clock may be nil to
// use the real clock; tests pass a fake.
func New(cfg Config, store *Store, surface Surface, handlers Handlers, clock clockwork.Clock) (*Engine, error) {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	effs := effects()
	if _, ok := effs[cfg.Effect]; !ok {
		return nil, fmt.Errorf("unknown effect %q", cfg.Effect)
	}
	return &Engine{
		cfg:        cfg,
		store:      store,
		surface:    surface,
		controls:   NewControls(),
		handlers:   handlers,
		clock:      clock,
		effects:    effs,
		effectName: cfg.Effect,
		current:    -1,
		state:      StateIdle,
	}, nil
}

// wrap maps i into [0, n) treating the index space as circular.
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Start waits for the store to become ready, rechecking every poll
// interval up to the startup timeout, then draws the first slide and
// begins autoplay when configured.
func (e *Engine) Start(ctx context.Context) error {
	deadline := e.clock.Now().Add(e.cfg.StartupTimeout)
	for !e.store.Ready() {
		if !e.clock.Now().Before(deadline) {
			log.Error().
				Int("settled", e.store.SettledCount()).
				Int("total", e.store.Len()).
				Msg("engine: startup wait gave up")
			return ErrStartupTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.clock.After(e.cfg.PollInterval):
		}
	}

	log.Info().Int("images", e.store.Len()).Str("effect", e.Effect()).Msg("engine: starting")

	e.mu.Lock()
	if e.current < 0 {
		e.current = 0
	}
	e.dispatchPlainLocked(e.current)
	ev := e.takeCommittedLocked()
	e.mu.Unlock()
	e.fire(ev, nil)

	if e.cfg.Autoplay {
		e.TogglePlay()
	}
	return nil
}

// Stop cancels any armed timer and leaves the engine idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.cancelTimerLocked()
	e.state = StateIdle
	e.mu.Unlock()
}

// TogglePlay flips autoplay and returns the new playing state. Turning
// playback off abandons any in-flight transition; the frame freezes where
// it was until the next action.
func (e *Engine) TogglePlay() bool {
	e.mu.Lock()
	playing := e.controls.TogglePlay()
	if playing {
		e.resumeLocked()
	} else {
		e.cancelTimerLocked()
		e.state = StateIdle
	}
	st := e.controls.State()
	e.mu.Unlock()

	log.Info().Bool("playing", playing).Msg("engine: play toggled")
	e.fire(nil, &st)
	return playing
}

// ToggleDirection flips reverse playback and returns the new value. A
// no-op while the direction control is disabled.
func (e *Engine) ToggleDirection() bool {
	e.mu.Lock()
	before := e.controls.Reversed()
	reversed := e.controls.ToggleDirection()
	changed := reversed != before
	st := e.controls.State()
	e.mu.Unlock()

	if changed {
		log.Info().Bool("reversed", reversed).Msg("engine: direction toggled")
		e.fire(nil, &st)
	}
	return reversed
}

// ToggleRandom flips random slide selection and returns the new value. A
// no-op while the random control is disabled.
func (e *Engine) ToggleRandom() bool {
	e.mu.Lock()
	before := e.controls.Random()
	random := e.controls.ToggleRandom()
	changed := random != before
	st := e.controls.State()
	e.mu.Unlock()

	if changed {
		log.Info().Bool("random", random).Msg("engine: random toggled")
		e.fire(nil, &st)
	}
	return random
}

// ToggleFullscreen flips the fullscreen flag and returns the new value.
// The engine only tracks the state; the display layer reacts through
// OnControls.
func (e *Engine) ToggleFullscreen() bool {
	e.mu.Lock()
	fullscreen := e.controls.ToggleFullscreen()
	st := e.controls.State()
	e.mu.Unlock()

	log.Info().Bool("fullscreen", fullscreen).Msg("engine: fullscreen toggled")
	e.fire(nil, &st)
	return fullscreen
}

// Next advances one slide forward. Manual navigation pauses autoplay and
// always renders through the plain strategy, never an animation.
func (e *Engine) Next() {
	e.advance(1)
}

// Previous moves one slide backward with the same semantics as Next.
func (e *Engine) Previous() {
	e.advance(-1)
}

func (e *Engine) advance(dir int) {
	ctl := ControlNext
	if dir < 0 {
		ctl = ControlPrevious
	}

	e.mu.Lock()
	if !e.controls.Enabled(ctl) {
		e.mu.Unlock()
		log.Debug().Str("control", ctl.String()).Msg("engine: control disabled, ignoring")
		return
	}
	length := e.store.Len()
	if length == 0 {
		e.mu.Unlock()
		return
	}

	var st *ControlState
	if e.controls.Playing() {
		e.controls.TogglePlay()
		s := e.controls.State()
		st = &s
	}
	e.cancelTimerLocked()
	e.state = StateIdle

	target := wrap(e.current+dir, length)
	e.dispatchPlainLocked(target)
	ev := e.takeCommittedLocked()
	e.mu.Unlock()

	log.Debug().Int("index", target).Str("control", ctl.String()).Msg("engine: manual advance")
	e.fire(ev, st)
}

// SelectEffect changes the active strategy. It takes effect on the next
// dispatch only; an in-flight animation keeps its strategy and target.
func (e *Engine) SelectEffect(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.effects[name]; !ok {
		return fmt.Errorf("unknown effect %q", name)
	}
	e.effectName = name
	log.Info().Str("effect", name).Msg("engine: effect selected")
	return nil
}

// Resume re-arms steady-state autoplay. A no-op unless playing.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.controls.Playing() {
		return
	}
	e.resumeLocked()
}

// Redraw re-renders the current slide without advancing, for display
// geometry or scale-mode changes. Skipped while a transition is running.
func (e *Engine) Redraw() {
	e.mu.Lock()
	if e.state == StateTransitioning || e.current < 0 || e.store.Len() == 0 {
		e.mu.Unlock()
		return
	}
	e.dispatchPlainLocked(e.current)
	ev := e.takeCommittedLocked()
	e.mu.Unlock()
	e.fire(ev, nil)
}

// Current returns the current slide index, or -1 before the first draw.
func (e *Engine) Current() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// State returns the scheduling state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Effect returns the active effect name.
func (e *Engine) Effect() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effectName
}

// ControlState returns a snapshot of the playback controls.
func (e *Engine) ControlState() ControlState {
	return e.controls.State()
}

// resumeLocked arms the autoplay interval in the shared timer slot.
func (e *Engine) resumeLocked() {
	e.scheduleLocked(e.cfg.Interval, e.autoplayTickLocked)
	e.state = StateAutoplaying
}

// autoplayTickLocked picks the next target and hands it to the active
// strategy.
func (e *Engine) autoplayTickLocked() {
	length := e.store.Len()
	if length == 0 {
		e.state = StateIdle
		return
	}

	var target int
	switch {
	case e.controls.Random():
		target = rand.Intn(length)
	case e.controls.Reversed():
		target = wrap(e.current-1, length)
	default:
		target = wrap(e.current+1, length)
	}
	e.dispatchLocked(target)
}

// dispatchLocked starts the active strategy toward target. Synchronous
// strategies complete here; animated ones arm the tick timer.
func (e *Engine) dispatchLocked(target int) {
	eff := e.effects[e.effectName]
	anim := eff.Begin(e.transitionLocked(target))
	if anim == nil {
		e.resumeLocked()
		return
	}
	e.state = StateTransitioning
	e.scheduleLocked(e.cfg.Tick, func() { e.animTickLocked(anim) })
}

// animTickLocked steps an animation one frame and re-arms the tick timer
// until the strategy reports completion.
func (e *Engine) animTickLocked(anim Animation) {
	if anim.Tick() {
		if e.controls.Playing() {
			e.resumeLocked()
		} else {
			e.state = StateIdle
		}
		return
	}
	e.scheduleLocked(e.cfg.Tick, func() { e.animTickLocked(anim) })
}

// dispatchPlainLocked renders target through the plain strategy,
// regardless of the active effect.
func (e *Engine) dispatchPlainLocked(target int) {
	plainEffect{}.Begin(e.transitionLocked(target))
}

// transitionLocked builds the per-invocation state handed to a strategy.
func (e *Engine) transitionLocked(target int) *Transition {
	return &Transition{
		Surface:   e.surface,
		From:      e.store.Entry(e.current),
		To:        e.store.Entry(target),
		FromIndex: e.current,
		ToIndex:   target,
		FadeStep:  e.cfg.FadeStep,
		SlideStep: e.cfg.SlideStep,
		commit: func(index int, caption string) {
			e.current = index
			e.surface.SetCaption(caption)
			e.committed = &slideEvent{index: index, caption: caption}
		},
	}
}

// scheduleLocked arms the single timer slot, cancelling any previous
// handle first. The callback re-checks its generation under the lock so a
// tick that fired concurrently with a cancel discards itself instead of
// running twice.
func (e *Engine) scheduleLocked(d time.Duration, fn func()) {
	e.cancelTimerLocked()
	gen := e.timerGen
	e.timer = e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		if e.timerGen != gen || e.timer == nil {
			e.mu.Unlock()
			return
		}
		e.timer = nil
		fn()
		ev := e.takeCommittedLocked()
		e.mu.Unlock()
		e.fire(ev, nil)
	})
}

// cancelTimerLocked stops the live timer, if any, and bumps the generation
// so an already-fired callback cannot run its work.
func (e *Engine) cancelTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

func (e *Engine) takeCommittedLocked() *slideEvent {
	ev := e.committed
	e.committed = nil
	return ev
}

// fire delivers queued events to the handlers. Must be called without the
// lock held.
func (e *Engine) fire(slide *slideEvent, st *ControlState) {
	if slide != nil && e.handlers.OnSlide != nil {
		e.handlers.OnSlide(slide.index, slide.caption)
	}
	if st != nil && e.handlers.OnControls != nil {
		e.handlers.OnControls(*st)
	}
}

// timerArmed reports whether the timer slot holds a live handle. Test
// hook.
func (e *Engine) timerArmed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timer != nil
}
