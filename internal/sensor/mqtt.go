package sensor

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

// DefaultTopic is the MQTT topic the capture device publishes samples to.
const DefaultTopic = "activity/accel/samples"

// MQTTSource subscribes to an MQTT topic and decodes one sample per message.
type MQTTSource struct {
	client paho.Client
	topic  string

	// mu serializes delivery against Close: handlers may still fire while
	// the paho client is tearing down, and a send on the closed channel
	// would panic.
	mu     sync.Mutex
	closed bool
	out    chan activity.Sample
}

// NewMQTTSource connects to the broker and subscribes to topic.
func NewMQTTSource(broker, topic string) (*MQTTSource, error) {
	s := &MQTTSource{
		topic: topic,
		out:   make(chan activity.Sample, 64),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("activity-monitor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c paho.Client) {
			// Resubscribe after every (re)connect.
			if token := c.Subscribe(topic, 0, s.onMessage); token.Wait() && token.Error() != nil {
				log.Printf("mqtt subscribe %s: %v", topic, token.Error())
			}
		})

	s.client = paho.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return s, nil
}

func (s *MQTTSource) onMessage(_ paho.Client, msg paho.Message) {
	var p payload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		log.Printf("mqtt sample decode: %v", err)
		return
	}
	s.deliver(activity.Sample{X: p.AccelX, Y: p.AccelY, Z: p.AccelZ})
}

// deliver hands one sample to the consumer. Drops rather than blocks when
// the consumer falls behind; the pipeline sheds load by skipping windows,
// not by queueing samples at the edge. Samples arriving after Close are
// dropped.
func (s *MQTTSource) deliver(sample activity.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- sample:
	default:
	}
}

// Samples returns the decoded sample channel.
func (s *MQTTSource) Samples() <-chan activity.Sample {
	return s.out
}

// IsConnected reports the broker connection state.
func (s *MQTTSource) IsConnected() bool {
	return s.client.IsConnected()
}

// Close unsubscribes and disconnects from the broker.
func (s *MQTTSource) Close() error {
	if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
		log.Printf("mqtt unsubscribe: %v", token.Error())
	}
	s.client.Disconnect(1000)
	s.closeOut()
	return nil
}

// closeOut marks the source closed and closes the sample channel, exactly
// once.
func (s *MQTTSource) closeOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}
