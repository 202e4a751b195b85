package notifier

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"piframe/slideshow"
)

type slidePayload struct {
	Index   int    `json:"index"`
	Caption string `json:"caption"`
}

type errorPayload struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// MQTT publishes playback state as JSON under <prefix>/state/. Controls
// are retained so late subscribers see the current toggles.
type MQTT struct {
	pub    Publisher
	prefix string
}

// NewMQTT creates an MQTT state notifier over an established transport.
func NewMQTT(pub Publisher, topicPrefix string) *MQTT {
	return &MQTT{pub: pub, prefix: topicPrefix}
}

func (m *MQTT) publish(subtopic string, retain bool, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("topic", subtopic).Msg("notifier: marshal state failed")
		return
	}
	topic := m.prefix + "/state/" + subtopic
	if err := m.pub.Publish(topic, retain, payload); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("notifier: publish failed")
	}
}

// Controls implements Notifier.Controls.
func (m *MQTT) Controls(st slideshow.ControlState) {
	m.publish("controls", true, st)
}

// Slide implements Notifier.Slide.
func (m *MQTT) Slide(index int, caption string) {
	m.publish("slide", true, slidePayload{Index: index, Caption: caption})
}

// LoadError implements Notifier.LoadError.
func (m *MQTT) LoadError(source string, err error) {
	m.publish("load_error", false, errorPayload{Source: source, Error: err.Error()})
}

// Release implements Notifier.Release.
func (m *MQTT) Release() error {
	return nil
}
