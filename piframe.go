package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"piframe/backlight"
	"piframe/display"
	"piframe/eventpipe"
	"piframe/input"
	"piframe/mqtt"
	"piframe/notifier"
	"piframe/rotary"
	"piframe/slideshow"
)

var myBuild string

// App holds the application state and dependencies.
type App struct {
	cfg       *Config
	store     *slideshow.Store
	engine    *slideshow.Engine
	display   *display.Display
	mqtt      *mqtt.Client
	notify    notifier.Notifier
	inputs    []input.Source
	pipe      *eventpipe.EventPipe
	rotary    *rotary.Rotary
	backlight backlight.Backlight
	schedule  *backlight.Schedule
	ctx       context.Context
	cancel    context.CancelFunc
}

func main() {
	fmt.Printf("piframe build %s\n", myBuild)

	cfgfile := flag.String("cfg", "piframe.cfg", "Config file")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := LoadConfig(*cfgfile)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	applyLogLevel(cfg.LogLevel, *verbose)

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}

	// Framebuffer display
	if !display.ScreenSupported() {
		log.Fatal().Msg("screen support not compiled in (build with -tags=screen)")
	}
	app.display, err = display.New(cfg.Display)
	if err != nil {
		log.Fatal().Err(err).Msg("init display")
	}
	app.display.Splash(myBuild)

	// Manifest into the store
	entries, err := LoadManifest(cfg.Manifest)
	if err != nil {
		app.fail("load manifest", err)
	}
	if len(entries) == 0 {
		app.fail("load manifest", fmt.Errorf("manifest is empty"))
	}

	app.store = slideshow.NewStore()
	for _, e := range entries {
		app.store.Add(e.Path, e.Caption)
	}
	log.Info().Int("images", app.store.Len()).Msg("manifest loaded")

	// MQTT and notifier sinks
	app.mqtt, err = mqtt.New(cfg.MQTT, cfg.ClientID, mqtt.Handlers{
		OnConnect:    app.onMQTTConnect,
		OnDisconnect: app.onMQTTDisconnect,
		OnMessage:    app.onMQTTMessage,
	})
	if err != nil {
		app.fail("init mqtt", err)
	}

	var pub notifier.Publisher
	if app.mqtt.IsEnabled() {
		pub = app.mqtt
	}
	statusPrefix := fmt.Sprintf("frame/status/node/%s", cfg.ClientID)
	app.notify = notifier.New(cfg.Notifier, pub, statusPrefix)

	// Playback engine
	app.engine, err = slideshow.New(cfg.Slideshow, app.store, app.display, slideshow.Handlers{
		OnControls: app.onControls,
		OnSlide:    app.onSlide,
	}, nil)
	if err != nil {
		app.fail("init slideshow", err)
	}

	// Input devices
	for _, icfg := range cfg.Inputs {
		src, err := input.New(icfg)
		if err != nil {
			app.fail("init input", err)
		}
		app.inputs = append(app.inputs, src)
		go app.commandListener(src)
	}

	// Named pipe
	app.pipe, err = eventpipe.New(cfg.Pipe, app.dispatch)
	if err != nil {
		app.fail("init event pipe", err)
	}
	if app.pipe != nil {
		go app.pipe.Start()
	}

	// Rotary encoder
	app.rotary, err = rotary.New(cfg.Rotary, app.dispatch)
	if err != nil {
		app.fail("init rotary", err)
	}
	if app.rotary != nil {
		log.Info().
			Int("clk", cfg.Rotary.CLKPin).
			Int("dt", cfg.Rotary.DTPin).
			Int("btn", cfg.Rotary.ButtonPin).
			Msg("rotary encoder ready")
	}

	// Backlight and its schedule
	app.backlight, err = backlight.New(cfg.Backlight)
	if err != nil {
		app.fail("init backlight", err)
	}
	app.schedule, err = backlight.NewSchedule(cfg.Backlight.Schedule, app.backlight, nil)
	if err != nil {
		app.fail("init backlight", err)
	}
	if app.schedule != nil {
		go app.schedule.Start()
	}

	// Start background goroutines
	go NewLoader(app.store, app.notify).Run(ctx)
	go func() {
		if err := app.mqtt.Connect(); err != nil {
			log.Error().Err(err).Msg("mqtt connect")
		}
	}()
	go app.pingSender()

	// Blocks until the images are settled, then draws the first slide
	if err := app.engine.Start(ctx); err != nil {
		app.fail("start slideshow", err)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	cancel()

	// Cleanup
	app.engine.Stop()
	app.mqtt.Disconnect()
	for _, src := range app.inputs {
		src.Close()
	}
	if app.pipe != nil {
		app.pipe.Close()
	}
	if app.rotary != nil {
		app.rotary.Release()
	}
	if app.schedule != nil {
		app.schedule.Stop()
	}
	app.backlight.Off()
	app.backlight.Release()
	app.notify.Release()
	app.display.Release()

	fmt.Println("Shutdown complete")
}

// fail paints the error on the panel so a headless frame shows why it
// died, then exits.
func (app *App) fail(what string, err error) {
	if app.display != nil {
		app.display.Error("piframe failed", err.Error())
	}
	log.Fatal().Err(err).Msg(what)
}

func applyLogLevel(level string, verbose bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			log.Warn().Str("level", level).Msg("unknown log_level, using info")
		} else {
			zerolog.SetGlobalLevel(parsed)
		}
	}
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// dispatch applies one command to the engine. Every control surface
// (keyboard, serial, pipe, rotary, MQTT) funnels through here.
func (app *App) dispatch(cmd input.Command) {
	log.Debug().Str("action", cmd.Action.String()).Msg("command")

	switch cmd.Action {
	case input.ActionTogglePlay:
		app.engine.TogglePlay()
	case input.ActionNext:
		app.engine.Next()
	case input.ActionPrevious:
		app.engine.Previous()
	case input.ActionToggleDirection:
		app.engine.ToggleDirection()
	case input.ActionToggleRandom:
		app.engine.ToggleRandom()
	case input.ActionToggleFullscreen:
		app.engine.ToggleFullscreen()
	case input.ActionSelectEffect:
		if err := app.engine.SelectEffect(cmd.Effect); err != nil {
			log.Warn().Err(err).Msg("select effect")
		}
	}
}

// commandListener reads commands from one input source until shutdown.
func (app *App) commandListener(src input.Source) {
	for {
		select {
		case <-app.ctx.Done():
			return
		default:
		}

		cmd, err := src.Read(app.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error().Err(err).Msg("read input")
			time.Sleep(time.Second)
			continue
		}

		app.dispatch(cmd)
	}
}

func (app *App) onControls(st slideshow.ControlState) {
	// Fullscreen flips the scaling mode, so the current image needs a
	// repaint. Redraw is a no-op mid-transition.
	app.display.SetCover(st.Fullscreen)
	app.engine.Redraw()
	app.notify.Controls(st)
}

func (app *App) onSlide(index int, caption string) {
	app.notify.Slide(index, caption)
}

func (app *App) onMQTTConnect() {
	topics := []string{
		fmt.Sprintf("frame/control/node/%s/command", app.cfg.ClientID),
		"frame/control/broadcast/command",
	}
	for _, topic := range topics {
		if err := app.mqtt.Subscribe(topic); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("subscribe failed")
		}
	}
}

func (app *App) onMQTTDisconnect() {
	log.Warn().Msg("mqtt connection lost")
}

// onMQTTMessage treats any command topic payload as one line of the
// textual command protocol.
func (app *App) onMQTTMessage(topic string, payload []byte) {
	cmd, err := input.Parse(string(payload))
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("bad command payload")
		return
	}
	app.dispatch(cmd)
}

func (app *App) pingSender() {
	ticker := time.NewTicker(120 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			topic := fmt.Sprintf("frame/status/node/%s/ping", app.cfg.ClientID)
			if err := app.mqtt.Publish(topic, false, []byte(`{"status":"ok"}`)); err != nil {
				log.Debug().Err(err).Msg("ping publish")
			}
		}
	}
}
