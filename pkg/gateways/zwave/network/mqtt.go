package network

import (
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds
	maxQoS                   = 2
)

// MQTT wraps a paho client. Subscriptions are restored on every reconnect.
type MQTT struct {
	client pahomqtt.Client
	log    logrus.FieldLogger

	subMu         sync.RWMutex
	subscriptions map[string]MessageHandler
}

func NewMQTT(brokerURL, clientID, password string, log logrus.FieldLogger) *MQTT {
	m := &MQTT{log: log, subscriptions: make(map[string]MessageHandler)}
	m.client = pahomqtt.NewClient(buildClientOptions(brokerURL, clientID, password, m.restoreSubscriptions))
	return m
}

func buildClientOptions(brokerURL, clientID, password string, onConnect func()) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	if password != "" {
		opts.SetUsername(clientID)
		opts.SetPassword(password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) { onConnect() })
	return opts
}

func (m *MQTT) Connect() error {
	token := m.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return errors.Errorf("mqtt connect: timeout after %v", defaultConnectTimeout)
	}
	return errors.Wrap(token.Error(), "mqtt connect")
}

// Publish does not wait for delivery of QoS 0 messages.
func (m *MQTT) Publish(topic string, payload interface{}, qos byte, retain bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return errors.Errorf("invalid qos %d", qos)
	}
	if !m.client.IsConnected() {
		return ErrNotConnected
	}
	body, err := EncodePayload(payload)
	if err != nil {
		return err
	}
	token := m.client.Publish(topic, qos, retain, body)
	if qos == 0 {
		return nil
	}
	if !token.WaitTimeout(publishTimeout) {
		return errors.Errorf("publish %s: timeout", topic)
	}
	return errors.Wrapf(token.Error(), "publish %s", topic)
}

func (m *MQTT) Subscribe(filter string, handler MessageHandler) error {
	m.subMu.Lock()
	m.subscriptions[filter] = handler
	m.subMu.Unlock()
	if !m.client.IsConnected() {
		// picked up by restoreSubscriptions once connected
		return nil
	}
	token := m.client.Subscribe(filter, 0, m.wrapHandler(handler))
	if !token.WaitTimeout(defaultConnectTimeout) {
		return errors.Errorf("subscribe %s: timeout", filter)
	}
	return errors.Wrapf(token.Error(), "subscribe %s", filter)
}

func (m *MQTT) restoreSubscriptions() {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	for filter, handler := range m.subscriptions {
		m.client.Subscribe(filter, 0, m.wrapHandler(handler))
	}
}

func (m *MQTT) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				m.log.WithField("topic", msg.Topic()).Errorln("handler panic recovered:", r)
			}
		}()
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			m.log.WithField("topic", msg.Topic()).Warnln("handler failed:", err)
		}
	}
}

func (m *MQTT) Close() {
	m.client.Disconnect(defaultDisconnectQuiesce)
}
