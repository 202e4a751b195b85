package notifier

import (
	"piframe/slideshow"
)

// Notifier mirrors playback state to external observers (logs, MQTT
// dashboards). Implementations must never block playback; failures are
// logged and swallowed.
type Notifier interface {
	// Controls reports a control state change.
	Controls(st slideshow.ControlState)

	// Slide reports the slide a strategy committed.
	Slide(index int, caption string)

	// LoadError reports an image that failed to load.
	LoadError(source string, err error)

	// Release releases any resources.
	Release() error
}

// Publisher is the transport the MQTT notifier publishes through.
type Publisher interface {
	Publish(topic string, retain bool, payload []byte) error
}

// Config selects which notifier sinks are active.
type Config struct {
	// Log mirrors state changes to the structured log.
	Log bool `yaml:"log"`

	// MQTT publishes state topics over the shared client.
	MQTT bool `yaml:"mqtt"`
}

// New assembles the configured sinks. With none configured it returns a
// Noop; with several, a Multi that fans out in order.
func New(cfg Config, pub Publisher, topicPrefix string) Notifier {
	var sinks []Notifier
	if cfg.Log {
		sinks = append(sinks, &Log{})
	}
	if cfg.MQTT && pub != nil {
		sinks = append(sinks, NewMQTT(pub, topicPrefix))
	}

	if len(sinks) == 0 {
		return &Noop{}
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &Multi{notifiers: sinks}
}
