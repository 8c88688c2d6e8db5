package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/batidao/cardbridge/internal/config"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	connectTimeout       = 10 * time.Second
	connectRetryInterval = 2 * time.Second
	reconnectBackoffMax  = 30 * time.Second
	publishWaitTimeout   = 5 * time.Second
	inboundChannelBuffer = 64
)

// MessageHandler receives every inbound message on the subscribed topics,
// in arrival order, as (topic, raw payload).
type MessageHandler func(topic string, payload []byte)

// Client adapts the broker connection: it subscribes to the card status and
// balance topics and publishes top-up commands. Reconnects and
// resubscription are handled by the underlying transport.
type Client struct {
	client  paho.Client
	topics  config.Topics
	handler MessageHandler
	inbound chan paho.Message
}

func NewClient(cfg *config.Config, handler MessageHandler) *Client {
	c := &Client{
		topics:  cfg.Topics,
		handler: handler,
		inbound: make(chan paho.Message, inboundChannelBuffer),
	}

	clientID := fmt.Sprintf("backend_%s_%s", cfg.TeamID, uuid.New().String()[:8])

	opts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTHost, cfg.MQTTPort)).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetMaxReconnectInterval(reconnectBackoffMax).
		SetConnectTimeout(connectTimeout).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("[MQTT] Connection lost: %v", err)
		})

	c.client = paho.NewClient(opts)
	return c
}

// Connect establishes the broker connection and starts the dispatch loop.
// Subscriptions are made from the connect handler so they survive
// reconnects.
func (c *Client) Connect() error {
	go c.dispatch()

	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect timed out")
	}
	return token.Error()
}

func (c *Client) onConnect(client paho.Client) {
	log.Printf("[MQTT] Connected to broker")

	filters := map[string]byte{
		c.topics.Status:  0,
		c.topics.Balance: 0,
	}
	token := client.SubscribeMultiple(filters, func(_ paho.Client, msg paho.Message) {
		c.inbound <- msg
	})
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("[MQTT] Subscribe failed: %v", err)
			return
		}
		log.Printf("[MQTT] Subscribed to %s and %s", c.topics.Status, c.topics.Balance)
	}()
}

// dispatch delivers inbound messages to the handler one at a time, in
// arrival order, off the paho router goroutine.
func (c *Client) dispatch() {
	for msg := range c.inbound {
		c.handler(msg.Topic(), msg.Payload())
	}
}

// Publish JSON-encodes payload and sends it best-effort. Errors (including
// sends attempted while disconnected) are soft failures.
func (c *Client) Publish(topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload for %s: %w", topic, err)
	}

	token := c.client.Publish(topic, 0, false, body)
	if !token.WaitTimeout(publishWaitTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
	close(c.inbound)
}
