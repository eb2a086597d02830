package network

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const retainedKeyPrefix = "zwave:retained:"

// Redis uses redis pub/sub as the bus. Retained messages are also stored
// under RetainedKey so late readers can fetch the last state.
type Redis struct {
	client *redis.Client
	log    logrus.FieldLogger

	mu     sync.Mutex
	pubsub []*redis.PubSub
}

func NewRedis(client *redis.Client, log logrus.FieldLogger) *Redis {
	return &Redis{client: client, log: log}
}

func RetainedKey(topic string) string { return retainedKeyPrefix + topic }

func (r *Redis) Publish(topic string, payload interface{}, qos byte, retain bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	body, err := EncodePayload(payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if retain {
		if err := r.client.Set(ctx, RetainedKey(topic), body, 0).Err(); err != nil {
			return errors.Wrapf(err, "retain %s", topic)
		}
	}
	return errors.Wrapf(r.client.Publish(ctx, topic, body).Err(), "publish %s", topic)
}

func (r *Redis) Subscribe(filter string, handler MessageHandler) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	ps := r.client.PSubscribe(ctx, RedisPattern(filter))
	// wait for the subscription to be confirmed so no message is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return errors.Wrapf(err, "subscribe %s", filter)
	}
	r.mu.Lock()
	r.pubsub = append(r.pubsub, ps)
	r.mu.Unlock()

	go func() {
		for msg := range ps.Channel() {
			if err := handler(msg.Channel, []byte(msg.Payload)); err != nil {
				r.log.WithField("topic", msg.Channel).Warnln("handler failed:", err)
			}
		}
	}()
	return nil
}

// Retained returns the last retained payload for topic, nil when none.
func (r *Redis) Retained(ctx context.Context, topic string) ([]byte, error) {
	b, err := r.client.Get(ctx, RetainedKey(topic)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return b, err
}

func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ps := range r.pubsub {
		_ = ps.Close()
	}
	r.pubsub = nil
	return r.client.Close()
}
