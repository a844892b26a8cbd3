package telemetry

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"ambercore/config"
	"ambercore/engine"
)

// Publisher bridges engine events onto MQTT topics so external dashboards and
// plant systems can observe mission progress without polling the HTTP API.
// Topics: <prefix>/missions for lifecycle events, <prefix>/robot for
// connectivity transitions.
type Publisher struct {
	cfg    *config.TelemetryConfig
	client mqtt.Client
	subID  engine.SubscriberID
}

func NewPublisher(cfg *config.TelemetryConfig) *Publisher {
	return &Publisher{cfg: cfg}
}

// Connect establishes the broker connection with auto-reconnect.
func (p *Publisher) Connect() error {
	broker := fmt.Sprintf("tcp://%s:%d", p.cfg.Broker, p.cfg.Port)
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	p.client = client
	return nil
}

// Start subscribes to the engine event bus. Safe to call only after Connect.
func (p *Publisher) Start(bus *engine.EventBus) {
	p.subID = bus.Subscribe(p.handle)
}

// Stop unsubscribes and disconnects.
func (p *Publisher) Stop(bus *engine.EventBus) {
	bus.Unsubscribe(p.subID)
	if p.client != nil {
		p.client.Disconnect(250)
	}
}

func (p *Publisher) handle(evt engine.Event) {
	topic, kind := p.route(evt.Type)
	if topic == "" {
		return
	}
	msg := map[string]any{
		"type":      kind,
		"timestamp": evt.Timestamp.UTC().Format(time.RFC3339),
		"data":      evt.Payload,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("telemetry: marshal %s: %v", kind, err)
		return
	}
	if err := p.publish(topic, payload); err != nil {
		log.Printf("telemetry: publish %s: %v", topic, err)
	}
}

func (p *Publisher) route(t engine.EventType) (topic, kind string) {
	missions := p.cfg.TopicPrefix + "/missions"
	robot := p.cfg.TopicPrefix + "/robot"
	switch t {
	case engine.EventMissionCreated:
		return missions, "created"
	case engine.EventMissionStatusChanged:
		return missions, "status_changed"
	case engine.EventStepCompleted:
		return missions, "step_completed"
	case engine.EventMissionCompleted:
		return missions, "completed"
	case engine.EventMissionFailed:
		return missions, "failed"
	case engine.EventMissionCancelled:
		return missions, "cancelled"
	case engine.EventRobotConnected:
		return robot, "connected"
	case engine.EventRobotDisconnected:
		return robot, "disconnected"
	}
	return "", ""
}

func (p *Publisher) publish(topic string, payload []byte) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("mqtt not connected")
	}
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	return token.Error()
}
