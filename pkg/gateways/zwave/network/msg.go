package network

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotConnected = errors.New("bus: not connected")
	ErrInvalidTopic = errors.New("bus: topic cannot be empty")
)

// Bus is the outbound side of a pub/sub transport.
type Bus interface {
	Publish(topic string, payload interface{}, qos byte, retain bool) error
}

// MessageHandler receives inbound messages. Returned errors are logged by
// the transport.
type MessageHandler func(topic string, payload []byte) error

// Subscriber is the inbound side of a pub/sub transport. Filters use MQTT
// syntax (`+` single level, `#` multi level) on every transport.
type Subscriber interface {
	Subscribe(filter string, handler MessageHandler) error
}

type InMsg struct {
	Topic   string
	Payload []byte
}

// EncodePayload renders a value for the wire. Text is sent verbatim,
// everything else as JSON.
func EncodePayload(payload interface{}) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return []byte{}, nil
	case string:
		return []byte(p), nil
	case []byte:
		return p, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode payload")
	}
	return body, nil
}

var (
	routingKeyReplacer = strings.NewReplacer("/", ".", "+", "*")
	topicReplacer      = strings.NewReplacer(".", "/")
	patternReplacer    = strings.NewReplacer("+", "*", "#", "*")
)

// RoutingKey maps an MQTT style topic or filter to an AMQP routing key.
func RoutingKey(topic string) string {
	return routingKeyReplacer.Replace(topic)
}

// TopicFromRoutingKey is the inverse of RoutingKey for concrete topics.
func TopicFromRoutingKey(key string) string {
	return topicReplacer.Replace(key)
}

// RedisPattern maps an MQTT style filter to a PSUBSCRIBE glob.
func RedisPattern(filter string) string {
	return patternReplacer.Replace(filter)
}
