package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// MQTTConfig configures the MQTT apply sink.
type MQTTConfig struct {
	URL      string `yaml:"url" json:"url"`
	ClientID string `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	// Topic is the prefix; updates go to "<Topic>/<target>".
	Topic string `yaml:"topic" json:"topic"`
	QoS   byte   `yaml:"qos,omitempty" json:"qos,omitempty"`
}

// publisher is the part of mqtt.Client the sink uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Update is the JSON payload published for each applied value.
type Update struct {
	Target   string `json:"target"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

// MQTT publishes applied values to a broker. Publishing never blocks the
// caller; failures are logged once the broker answers.
type MQTT struct {
	client publisher
	topic  string
	qos    byte
	logger *slog.Logger
	close  func()
}

// NewMQTT wraps an already connected client.
func NewMQTT(client publisher, topic string, qos byte, logger *slog.Logger) *MQTT {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MQTT{
		client: client,
		topic:  strings.TrimSuffix(topic, "/"),
		qos:    qos,
		logger: logger,
		close:  func() {},
	}
}

// DialMQTT connects to the broker in cfg and returns a sink publishing to it.
func DialMQTT(cfg MQTTConfig, timeout time.Duration, logger *slog.Logger) (*MQTT, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mqtt: broker url is required")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "motion"
	}

	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)
	client := mqtt.NewClient(options)

	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out after %s", cfg.URL, timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.URL, err)
	}

	m := NewMQTT(client, cfg.Topic, cfg.QoS, logger)
	m.close = func() { client.Disconnect(250) }
	return m, nil
}

// Apply implements Applier.
func (m *MQTT) Apply(id string, p style.Property, value string) {
	payload, err := json.Marshal(Update{Target: id, Property: string(p), Value: value})
	if err != nil {
		m.logger.Error("mqtt marshal failed", slog.String("error", err.Error()))
		return
	}

	topic := m.topic + "/" + id
	token := m.client.Publish(topic, m.qos, false, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			m.logger.Warn("mqtt publish failed",
				slog.String("topic", topic),
				slog.String("error", err.Error()))
		}
	}()
}

// Close disconnects a sink created by DialMQTT.
func (m *MQTT) Close() {
	m.close()
}
