package stream

import (
	"errors"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/animtx/playback"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a frame
// in time.
var ErrPublishTimeout = errors.New("publish timed out")

// Publisher is a renderer that streams binary frames to an MQTT topic.
type Publisher struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewPublisher creates an instance of a Publisher.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	p := new(Publisher)
	p.client = client
	p.topic = topic
	p.timeout = time.Second
	return p
}

// Render sends a frame as binary over MQTT.
func (p *Publisher) Render(f *playback.Frame) error {
	b, err := Frame{f}.MarshalBinary()
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, false, b)
	if !token.WaitTimeout(p.timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}
