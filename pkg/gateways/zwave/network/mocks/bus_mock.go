package mocks

import (
	"github.com/stretchr/testify/mock"
)

type BusMock struct {
	mock.Mock
}

func (b *BusMock) Publish(topic string, payload interface{}, qos byte, retain bool) error {
	args := b.Called(topic, payload, qos, retain)
	return args.Error(0)
}
