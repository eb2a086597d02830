package network

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQP carries bus traffic over a topic exchange. Topics become routing
// keys (see RoutingKey). AMQP has no retained messages, so the retain
// flag only selects persistent delivery.
type AMQP struct {
	exchange string
	conn     connection
	log      logrus.FieldLogger

	mu            sync.Mutex
	started       bool
	subscriptions []amqpSubscription
}

type amqpSubscription struct {
	filter  string
	handler MessageHandler
}

func NewAMQP(url, exchange string, log logrus.FieldLogger) *AMQP {
	return newAMQPWithConnection(NewAmqpConnection(url), exchange, log)
}

func newAMQPWithConnection(conn connection, exchange string, log logrus.FieldLogger) *AMQP {
	return &AMQP{exchange: exchange, conn: conn, log: log}
}

func (a *AMQP) Start() error {
	err := backoff.Retry(a.connect, backoff.NewExponentialBackOff())
	if err != nil {
		return errors.Wrap(err, "amqp start")
	}
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()
	go a.notifyWhenClosed()
	return nil
}

func (a *AMQP) Stop() error {
	a.mu.Lock()
	a.started = false
	a.mu.Unlock()
	return a.conn.close()
}

func (a *AMQP) connect() error {
	if err := a.conn.connect(); err != nil {
		return err
	}
	if err := a.conn.createChannel(); err != nil {
		return err
	}
	return a.conn.exchangeDeclare(a.exchange, exchangeTypeTopic)
}

func (a *AMQP) Publish(topic string, payload interface{}, qos byte, retain bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if a.conn.isClosed() {
		return ErrNotConnected
	}
	body, err := EncodePayload(payload)
	if err != nil {
		return err
	}
	err = a.conn.publish(a.exchange, RoutingKey(topic), body, qos > 0 || retain)
	if err != nil {
		return errors.Wrap(err, "error publishing message in channel")
	}
	return nil
}

func (a *AMQP) Subscribe(filter string, handler MessageHandler) error {
	if err := a.bind(filter, handler); err != nil {
		return err
	}
	a.mu.Lock()
	a.subscriptions = append(a.subscriptions, amqpSubscription{filter: filter, handler: handler})
	a.mu.Unlock()
	return nil
}

func (a *AMQP) bind(filter string, handler MessageHandler) error {
	queue, err := a.conn.queueDeclare("")
	if err != nil {
		return errors.Wrap(err, "declare queue")
	}
	if err := a.conn.queueBind(queue, RoutingKey(filter), a.exchange); err != nil {
		return errors.Wrapf(err, "bind %s", filter)
	}
	deliveries, err := a.conn.consume(queue)
	if err != nil {
		return errors.Wrap(err, "consume")
	}
	go a.dispatch(deliveries, handler)
	return nil
}

func (a *AMQP) dispatch(deliveries <-chan amqp.Delivery, handler MessageHandler) {
	for d := range deliveries {
		topic := TopicFromRoutingKey(d.RoutingKey)
		if err := handler(topic, d.Body); err != nil {
			a.log.WithField("topic", topic).Warnln("handler failed:", err)
		}
	}
}

func (a *AMQP) notifyWhenClosed() {
	errReason := <-a.conn.notifyClose(make(chan *amqp.Error, 1))
	if errReason == nil {
		// graceful close
		return
	}
	a.log.Warnln("amqp connection lost:", errReason)

	reconnectionBackOff := backoff.NewExponentialBackOff()
	reconnectionBackOff.InitialInterval = 30 * time.Second
	reconnectionBackOff.MaxInterval = 5 * time.Minute
	reconnectionBackOff.Multiplier = 1.7
	reconnectionBackOff.MaxElapsedTime = 0

	reconnection := func() error {
		a.mu.Lock()
		started := a.started
		a.mu.Unlock()
		if !started {
			return backoff.Permanent(errors.New("stopped"))
		}
		if err := a.connect(); err != nil {
			a.log.Warnln("cannot reconnect to broker:", err, "retry in", reconnectionBackOff.NextBackOff())
			return err
		}
		return a.rebind()
	}

	if err := backoff.Retry(reconnection, reconnectionBackOff); err != nil {
		return
	}
	a.log.Infoln("reconnection to amqp broker was successful")
	go a.notifyWhenClosed()
}

func (a *AMQP) rebind() error {
	a.mu.Lock()
	subscriptions := append([]amqpSubscription(nil), a.subscriptions...)
	a.mu.Unlock()
	for _, s := range subscriptions {
		if err := a.bind(s.filter, s.handler); err != nil {
			return err
		}
	}
	return nil
}
