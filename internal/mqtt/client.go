// Package mqtt publishes canonical colors to an MQTT broker.
package mqtt

import (
	"context"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/logging"
)

var logger = logging.New("mqtt")

const publishTimeout = 2 * time.Second

// Client is the subset of a broker connection the publisher needs.
type Client interface {
	Connect(ctx context.Context) error
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Disconnect()
}

type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

type pahoClient struct {
	client pahomqtt.Client
	broker string
}

// NewClient builds a reconnecting paho client. An empty ClientID gets a random one.
func NewClient(cfg Config) Client {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "ambient-lights-" + uuid.NewString()[:8]
	}
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(pahomqtt.Client) {
		logger.With(zap.String("broker", cfg.Broker)).Info("Connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ pahomqtt.Client, err error) {
		logger.With(zap.Error(err)).Warn("MQTT connection lost")
	}

	return &pahoClient{client: pahomqtt.NewClient(opts), broker: cfg.Broker}
}

func (m *pahoClient) Connect(ctx context.Context) error {
	logger.With(zap.String("broker", m.broker)).Info("Connecting to MQTT broker")
	token := m.client.Connect()

	select {
	case <-token.Done():
		if token.Error() != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("connection timeout: %w", ctx.Err())
	}
}

func (m *pahoClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := m.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

func (m *pahoClient) Disconnect() {
	m.client.Disconnect(250)
}
