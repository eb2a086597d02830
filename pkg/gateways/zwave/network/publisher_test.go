package network

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func newTestPublisher(bus Bus) (Publisher, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewMsgPublisher(bus, "zwave", logger), hook
}

func TestPublishNodeReady(t *testing.T) {
	bus := new(busMock)
	bus.On("Publish", "zwave/nodeready/3", true, byte(0), false).Return(nil)

	publisher, _ := newTestPublisher(bus)
	publisher.PublishNodeReady(3)
	bus.AssertExpectations(t)
}

func TestPublishValue(t *testing.T) {
	bus := new(busMock)
	bus.On("Publish", "zwave/3/38/0", float64(99), byte(0), false).Return(nil)

	publisher, _ := newTestPublisher(bus)
	publisher.PublishValue(3, 38, 0, float64(99))
	bus.AssertExpectations(t)
}

func TestPublishScene(t *testing.T) {
	bus := new(busMock)
	bus.On("Publish", "zwave/7/scene", 12, byte(0), false).Return(nil)

	publisher, _ := newTestPublisher(bus)
	publisher.PublishScene(7, 12)
	bus.AssertExpectations(t)
}

func TestPublishWhenBusFailsThenWarn(t *testing.T) {
	bus := new(busMock)
	bus.On("Publish", "zwave/7/scene", 1, byte(0), false).Return(errors.New("failed"))

	publisher, hook := newTestPublisher(bus)
	publisher.PublishScene(7, 1)
	assert.Equal(t, "zwave/7/scene", hook.LastEntry().Data["topic"])
}

func TestPublishWhenNoBusThenNoop(t *testing.T) {
	publisher, hook := newTestPublisher(nil)
	assert.NotPanics(t, func() {
		publisher.PublishNodeReady(3)
		publisher.Publish("zwave/custom", "x", 1, true)
	})
	assert.Empty(t, hook.AllEntries())
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "home/nodeready/12", NodeReadyTopic("home", 12))
	assert.Equal(t, "home/12/37/1", ValueTopic("home", 12, 37, 1))
	assert.Equal(t, "home/12/scene", SceneTopic("home", 12))
}
