package zwave

import (
	"context"
	"sync"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/stretchr/testify/mock"
)

type driverMock struct {
	mock.Mock
	mu       sync.Mutex
	listener func(Event)
}

func (d *driverMock) Connect(path string) error {
	args := d.Called(path)
	return args.Error(0)
}

func (d *driverMock) Disconnect(path string) error {
	args := d.Called(path)
	return args.Error(0)
}

func (d *driverMock) Listen(listener func(Event)) {
	d.mu.Lock()
	d.listener = listener
	d.mu.Unlock()
	d.Called()
}

func (d *driverMock) RemoveAllListeners() {
	d.mu.Lock()
	d.listener = nil
	d.mu.Unlock()
	d.Called()
}

func (d *driverMock) AddNode() error {
	args := d.Called()
	return args.Error(0)
}

func (d *driverMock) SetValue(nodeID, classID, instance, index int, value interface{}) error {
	args := d.Called(nodeID, classID, instance, index, value)
	return args.Error(0)
}

func (d *driverMock) EnablePoll(nodeID, classID int) error {
	args := d.Called(nodeID, classID)
	return args.Error(0)
}

func (d *driverMock) SetConfigParam(nodeID, param, value, size int) error {
	args := d.Called(nodeID, param, value, size)
	return args.Error(0)
}

// emit delivers events the way a driver would.
func (d *driverMock) emit(events ...Event) {
	d.mu.Lock()
	listener := d.listener
	d.mu.Unlock()
	for _, ev := range events {
		listener(ev)
	}
}

type registrarMock struct {
	mock.Mock
}

func (r *registrarMock) GetFlowFromNode(ctx context.Context, filter map[string]interface{}) (*entities.Flow, error) {
	args := r.Called(filter)
	flow, _ := args.Get(0).(*entities.Flow)
	return flow, args.Error(1)
}

func (r *registrarMock) AddToFlow(ctx context.Context, flowID, label string, nodes []entities.FlowNodeDescriptor, extra []map[string]interface{}, keyFields []string) error {
	args := r.Called(flowID, label, nodes, keyFields)
	return args.Error(0)
}

func (r *registrarMock) GenerateNodeID() string {
	args := r.Called()
	return args.String(0)
}
