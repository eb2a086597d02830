package network

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
)

type connectionMock struct {
	mock.Mock
}

func (m *connectionMock) connect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *connectionMock) createChannel() error {
	args := m.Called()
	return args.Error(0)
}

func (m *connectionMock) exchangeDeclare(name, exchangeType string) error {
	args := m.Called(name, exchangeType)
	return args.Error(0)
}

func (m *connectionMock) queueDeclare(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *connectionMock) queueBind(queueName, key, exchangeName string) error {
	args := m.Called(queueName, key, exchangeName)
	return args.Error(0)
}

func (m *connectionMock) consume(queue string) (<-chan amqp.Delivery, error) {
	args := m.Called(queue)
	return args.Get(0).(<-chan amqp.Delivery), args.Error(1)
}

func (m *connectionMock) publish(exchange, key string, body []byte, persistent bool) error {
	args := m.Called(exchange, key, body, persistent)
	return args.Error(0)
}

func (m *connectionMock) isClosed() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *connectionMock) close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *connectionMock) notifyClose(channel chan *amqp.Error) chan *amqp.Error {
	m.Called()
	return channel
}

type busMock struct {
	mock.Mock
}

func (m *busMock) Publish(topic string, payload interface{}, qos byte, retain bool) error {
	args := m.Called(topic, payload, qos, retain)
	return args.Error(0)
}

type subscriberMock struct {
	mock.Mock
	handlers map[string]MessageHandler
}

func (m *subscriberMock) Subscribe(filter string, handler MessageHandler) error {
	if m.handlers == nil {
		m.handlers = make(map[string]MessageHandler)
	}
	m.handlers[filter] = handler
	args := m.Called(filter)
	return args.Error(0)
}

type commanderMock struct {
	mock.Mock
}

func (m *commanderMock) AddNode() error {
	args := m.Called()
	return args.Error(0)
}

func (m *commanderMock) SetValue(nodeID, classID, instance, index int, value interface{}) error {
	args := m.Called(nodeID, classID, instance, index, value)
	return args.Error(0)
}
