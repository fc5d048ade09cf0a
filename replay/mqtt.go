package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttPublishTimeout = time.Second * 5
	mqttQuiesceMillis  = 250
)

// MQTTSink publishes events as JSON on an MQTT topic.
type MQTTSink struct {
	topic   string
	publish func(topic string, payload []byte) error
	close   func()
}

// DialMQTT connects to the given broker (e.g. tcp://localhost:1883) and
// returns a sink publishing on topic.
func DialMQTT(broker, clientID, topic string) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", broker, token.Error())
	}
	return NewMQTTSink(client, topic), nil
}

// NewMQTTSink returns a sink publishing on topic using a connected client.
func NewMQTTSink(client mqtt.Client, topic string) *MQTTSink {
	return &MQTTSink{
		topic: topic,
		publish: func(topic string, payload []byte) error {
			token := client.Publish(topic, 0, false, payload)
			if !token.WaitTimeout(mqttPublishTimeout) {
				return fmt.Errorf("publish to %s timed out", topic)
			}
			return token.Error()
		},
		close: func() { client.Disconnect(mqttQuiesceMillis) },
	}
}

// Publish implements Sink.
func (s *MQTTSink) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return s.publish(s.topic, data)
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() {
	if s.close != nil {
		s.close()
	}
}
