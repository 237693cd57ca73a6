package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

const (
	topicLightState   = "smartlights/lights/%s"
	topicSchedule     = "smartlights/schedule/%s"
	topicAIMode       = "smartlights/ai/mode"
	topicPrediction   = "smartlights/ai/prediction/%s"
	topicActivity     = "smartlights/activity"
	topicMotionFilter = "smartlights/motion/+"
)

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// MotionHandler receives motion observations from device topics.
type MotionHandler func(room string, occupied bool)

// MQTTPublisher mirrors engine events onto MQTT topics and feeds motion
// sensor messages back into the engine.
type MQTTPublisher struct {
	client mqtt.Client
}

func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", token.Error())
	}

	logger.Info("connected to mqtt broker", "broker", cfg.Broker)
	return &MQTTPublisher{client: client}, nil
}

// SubscribeMotion routes smartlights/motion/<room> messages to the handler.
// Payload is {"occupied": bool}.
func (p *MQTTPublisher) SubscribeMotion(handler MotionHandler) error {
	token := p.client.Subscribe(topicMotionFilter, 1, func(_ mqtt.Client, msg mqtt.Message) {
		parts := strings.Split(msg.Topic(), "/")
		room := parts[len(parts)-1]

		var payload struct {
			Occupied bool `json:"occupied"`
		}
		if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
			logger.Warn("malformed motion payload", "topic", msg.Topic(), "error", err)
			return
		}
		handler(room, payload.Occupied)
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to motion topic: %w", token.Error())
	}
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

func (p *MQTTPublisher) publish(topic string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal mqtt payload", err, "topic", topic)
		return
	}
	// fire-and-forget, QoS 0
	p.client.Publish(topic, 0, false, raw)
}

func (p *MQTTPublisher) LightChanged(room string, state domain.LightState) {
	p.publish(fmt.Sprintf(topicLightState, room), state)
}

func (p *MQTTPublisher) ScheduleExecuted(room, action string, brightness int) {
	p.publish(fmt.Sprintf(topicSchedule, room), map[string]any{
		"action":     action,
		"brightness": brightness,
	})
}

func (p *MQTTPublisher) AIModeChanged(enabled bool) {
	p.publish(topicAIMode, map[string]bool{"enabled": enabled})
}

func (p *MQTTPublisher) Prediction(room string, probability float64, occupied bool) {
	p.publish(fmt.Sprintf(topicPrediction, room), map[string]any{
		"probability": probability,
		"occupied":    occupied,
	})
}

func (p *MQTTPublisher) ActivityLogged(entry domain.ActivityLog) {
	p.publish(topicActivity, entry)
}
