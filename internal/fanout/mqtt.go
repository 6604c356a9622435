package fanout

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Publisher sends a payload to a topic on the real-time channel.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTPublisher implements Publisher over an MQTT client connection.
type MQTTPublisher struct {
	Client  mqtt.Client
	QoS     byte
	Timeout time.Duration
}

// Publish sends a payload to a topic, waiting up to Timeout for the
// broker to take the message.
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	token := p.Client.Publish(topic, p.QoS, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// ConnectMQTT connects to the broker configured by MQTT_BROKER_URL and
// MQTT_CLIENT_ID.
func ConnectMQTT() (mqtt.Client, error) {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		brokerURL = "tcp://mqtt:1883"
	}
	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" {
		clientID = "school-transit-server"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}
	return client, nil
}

// Listen subscribes the router to the control topics: presence
// declarations, conversation join/leave and chat relay.
func (r *Router) Listen(client mqtt.Client) error {
	handlers := map[string]mqtt.MessageHandler{
		SubscribeTopic: func(_ mqtt.Client, msg mqtt.Message) {
			var sub SubscribeMessage
			if err := json.Unmarshal(msg.Payload(), &sub); err != nil {
				log.WithError(err).Warn("Ignoring malformed subscribe message")
				return
			}
			if sub.Disconnect {
				r.DropSession(sub.ClientID)
				log.WithField("client_id", sub.ClientID).Info("Client disconnected")
				return
			}
			r.HandleSubscribe(sub)
		},
		TopicJoinTopic: func(_ mqtt.Client, msg mqtt.Message) {
			var join TopicMessage
			if err := json.Unmarshal(msg.Payload(), &join); err != nil {
				log.WithError(err).Warn("Ignoring malformed topic join message")
				return
			}
			r.HandleTopicJoin(join)
		},
		TopicLeaveTopic: func(_ mqtt.Client, msg mqtt.Message) {
			var leave TopicMessage
			if err := json.Unmarshal(msg.Payload(), &leave); err != nil {
				log.WithError(err).Warn("Ignoring malformed topic leave message")
				return
			}
			r.HandleTopicLeave(leave)
		},
		ChatSendTopic: func(_ mqtt.Client, msg mqtt.Message) {
			var chat ChatMessage
			if err := json.Unmarshal(msg.Payload(), &chat); err != nil {
				log.WithError(err).Warn("Ignoring malformed chat message")
				return
			}
			r.HandleChat(chat)
		},
		ChatAddUserTopic: func(_ mqtt.Client, msg mqtt.Message) {
			var chat ChatMessage
			if err := json.Unmarshal(msg.Payload(), &chat); err != nil {
				log.WithError(err).Warn("Ignoring malformed chat add-user message")
				return
			}
			r.HandleChatAddUser(chat)
		},
	}

	for topic, handler := range handlers {
		token := client.Subscribe(topic, 1, handler)
		if !token.WaitTimeout(10 * time.Second) {
			return fmt.Errorf("subscribe to %s timed out", topic)
		}
		if err := token.Error(); err != nil {
			return err
		}
	}
	return nil
}
