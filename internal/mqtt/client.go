package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"devicesim/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client wraps the MQTT client with convenience methods for publishing
// telemetry. Unlike a device-facing bridge, nothing here subscribes to
// inbound command topics: a simulated fleet has no real actuators for an
// operator to write to over MQTT.
type Client struct {
	cfg         *config.MQTTConfig
	client      mqtt.Client
	connected   bool
	mu          sync.RWMutex
	topicPrefix string
}

// NewClient creates a new MQTT client.
func NewClient(cfg *config.MQTTConfig) *Client {
	return &Client{
		cfg:         cfg,
		topicPrefix: cfg.TopicPrefix,
	}
}

// Connect establishes connection to the MQTT broker.
func (c *Client) Connect() error {
	broker := fmt.Sprintf("tcp://%s:%d", c.cfg.Broker, c.cfg.Port)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(c.cfg.ClientID)
	opts.SetConnectTimeout(10 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(5 * time.Minute)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		log.Printf("[INFO] mqtt: connected to %s", broker)
		c.Publish(fmt.Sprintf("%s/bridge/status", c.topicPrefix), "online", true)
	})

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		log.Printf("[ERROR] mqtt: connection lost: %v", err)
	})

	opts.SetWill(
		fmt.Sprintf("%s/bridge/status", c.topicPrefix),
		"offline",
		1,
		true,
	)

	c.client = mqtt.NewClient(opts)

	token := c.client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return nil
}

// Disconnect closes the MQTT connection.
func (c *Client) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		c.Publish(fmt.Sprintf("%s/bridge/status", c.topicPrefix), "offline", true)
		c.client.Disconnect(250)
	}
}

// IsConnected returns true if connected to the broker.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Publish publishes a message to a topic.
func (c *Client) Publish(topic string, payload interface{}, retain bool) error {
	if c.client == nil || !c.client.IsConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}

	var data []byte
	switch v := payload.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	token := c.client.Publish(topic, 0, retain, data)
	token.Wait()
	return token.Error()
}
