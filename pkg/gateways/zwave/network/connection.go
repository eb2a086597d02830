package network

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeTypeTopic = "topic"
	durable           = true
	deleteWhenUnused  = false
	internal          = false
	noWait            = false
	noAck             = true
	noLocal           = false
	consumerTag       = ""
	publishTimeout    = 5 * time.Second
)

type connection interface {
	connect() error
	createChannel() error
	exchangeDeclare(name, exchangeType string) error
	queueDeclare(name string) (string, error)
	queueBind(queueName, key, exchangeName string) error
	consume(queue string) (<-chan amqp.Delivery, error)
	publish(exchange, key string, body []byte, persistent bool) error
	isClosed() bool
	close() error
	notifyClose(channel chan *amqp.Error) chan *amqp.Error
}

type AmqpConnection struct {
	url     string
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAmqpConnection(url string) *AmqpConnection {
	return &AmqpConnection{url: url}
}

func (a *AmqpConnection) connect() error {
	conn, err := amqp.Dial(a.url)
	if err == nil {
		a.conn = conn
	}
	return err
}

func (a *AmqpConnection) createChannel() error {
	channel, err := a.conn.Channel()
	if err == nil {
		a.channel = channel
	}
	return err
}

// queueDeclare declares a durable queue, or a broker-named exclusive queue
// that dies with the connection when name is empty.
func (a *AmqpConnection) queueDeclare(name string) (string, error) {
	temporary := name == ""
	queue, err := a.channel.QueueDeclare(
		name,
		!temporary,
		temporary,
		temporary,
		noWait,
		nil, // arguments
	)
	if err != nil {
		return "", err
	}
	return queue.Name, nil
}

func (a *AmqpConnection) exchangeDeclare(name, exchangeType string) error {
	return a.channel.ExchangeDeclare(
		name,
		exchangeType,
		durable,
		deleteWhenUnused,
		internal,
		noWait,
		nil, // arguments
	)
}

func (a *AmqpConnection) queueBind(queueName, key, exchangeName string) error {
	return a.channel.QueueBind(
		queueName,
		key,
		exchangeName,
		noWait,
		nil, // arguments
	)
}

func (a *AmqpConnection) consume(queue string) (<-chan amqp.Delivery, error) {
	return a.channel.Consume(queue, consumerTag, noAck, false, noLocal, noWait, nil)
}

func (a *AmqpConnection) publish(exchange, key string, body []byte, persistent bool) error {
	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return a.channel.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "text/plain",
			DeliveryMode: mode,
			Body:         body,
		},
	)
}

func (a *AmqpConnection) isClosed() bool {
	return a.conn == nil || a.conn.IsClosed()
}

func (a *AmqpConnection) close() error {
	if a.channel != nil {
		_ = a.channel.Close()
	}
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

func (a *AmqpConnection) notifyClose(channel chan *amqp.Error) chan *amqp.Error {
	return a.conn.NotifyClose(channel)
}
