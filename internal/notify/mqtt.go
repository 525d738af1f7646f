// Package notify publishes blood requests to donors of the matching blood type.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig holds broker settings.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// ConnectTimeout bounds the wait for the first connection. Zero means 30s.
	ConnectTimeout time.Duration
}

// MQTTPublisher sends payloads to an MQTT broker with QoS 1.
type MQTTPublisher struct {
	client  mqtt.Client
	timeout time.Duration
}

// NewMQTTPublisher connects to the broker. Broker may be given as host:port
// or with a scheme. It gives up when ctx is done or the connect timeout
// passes, whichever comes first.
func NewMQTTPublisher(ctx context.Context, cfg MQTTConfig) (*MQTTPublisher, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return nil, errors.New("MQTT broker address is required")
	}
	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "rakta-worker"
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	wait := cfg.ConnectTimeout
	if wait <= 0 {
		wait = 30 * time.Second
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	// With connect retry on, the token only completes once a connection is up.
	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		client.Disconnect(0)
		return nil, ctx.Err()
	case <-timer.C:
		client.Disconnect(0)
		return nil, fmt.Errorf("connecting to MQTT broker %s: no connection after %s", broker, wait)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	return newMQTTPublisher(client), nil
}

func newMQTTPublisher(client mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{client: client, timeout: 10 * time.Second}
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, false, payload)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	case <-time.After(p.timeout):
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
