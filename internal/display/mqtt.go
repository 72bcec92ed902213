package display

import (
	"encoding/json"
	"time"
)

// Publisher is the slice of the MQTT client the display sink uses.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
	IsConnected() bool
}

// Logger defines the logging interface for the display sinks.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// statusDocument is the JSON shape published to the status topic.
type statusDocument struct {
	Lines     []statusLine `json:"lines"`
	UpdatedMs int64        `json:"updated_ms"`
}

type statusLine struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// MQTT mirrors the status block to a retained MQTT topic so remote
// dashboards see exactly what the device shows.
type MQTT struct {
	pub   Publisher
	topic string
	log   Logger

	now func() time.Time
}

// NewMQTT creates an MQTT display sink publishing to topic.
func NewMQTT(pub Publisher, topic string, log Logger) *MQTT {
	if log == nil {
		log = noopLogger{}
	}
	return &MQTT{
		pub:   pub,
		topic: topic,
		log:   log,
		now:   time.Now,
	}
}

// Render publishes the block as a retained JSON document. Blocks are
// dropped silently while the broker link is down; the next successful
// render replaces the retained document anyway.
func (m *MQTT) Render(lines []Line) {
	if !m.pub.IsConnected() {
		return
	}

	doc := statusDocument{
		Lines:     make([]statusLine, 0, len(lines)),
		UpdatedMs: m.now().UnixMilli(),
	}
	for _, line := range lines {
		doc.Lines = append(doc.Lines, statusLine{
			Text:  line.Text,
			Color: line.Color.String(),
		})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		m.log.Error("status document marshal failed", "error", err)
		return
	}

	if err := m.pub.PublishRetained(m.topic, payload); err != nil {
		m.log.Warn("status publish failed", "topic", m.topic, "error", err)
	}
}
