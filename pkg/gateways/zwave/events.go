package zwave

import (
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/pkg/errors"
)

const (
	KindDriverReady  = "driver ready"
	KindDriverFailed = "driver failed"
	KindNodeAdded    = "node added"
	KindNodeReady    = "node ready"
	KindValueAdded   = "value added"
	KindValueChanged = "value changed"
	KindValueRemoved = "value removed"
	KindSceneEvent   = "scene event"
	KindNotification = "notification"
	KindScanComplete = "scan complete"
)

// Event is a driver event. Events are validated before they reach the
// session; invalid ones are dropped.
type Event interface {
	Kind() string
	Validate() error
}

type DriverReady struct {
	HomeID uint32
}

type DriverFailed struct{}

type NodeAdded struct {
	NodeID int
}

type NodeReady struct {
	NodeID int
	Info   entities.NodeInfo
}

type ValueAdded struct {
	NodeID  int
	ClassID int
	Value   entities.Value
}

type ValueChanged struct {
	NodeID  int
	ClassID int
	Value   entities.Value
}

type ValueRemoved struct {
	NodeID  int
	ClassID int
	Index   int
}

type SceneEvent struct {
	NodeID  int
	SceneID int
}

type Notification struct {
	NodeID int
	Code   int
}

type ScanComplete struct{}

func (DriverReady) Kind() string  { return KindDriverReady }
func (DriverFailed) Kind() string { return KindDriverFailed }
func (NodeAdded) Kind() string    { return KindNodeAdded }
func (NodeReady) Kind() string    { return KindNodeReady }
func (ValueAdded) Kind() string   { return KindValueAdded }
func (ValueChanged) Kind() string { return KindValueChanged }
func (ValueRemoved) Kind() string { return KindValueRemoved }
func (SceneEvent) Kind() string   { return KindSceneEvent }
func (Notification) Kind() string { return KindNotification }
func (ScanComplete) Kind() string { return KindScanComplete }

func (DriverReady) Validate() error  { return nil }
func (DriverFailed) Validate() error { return nil }
func (ScanComplete) Validate() error { return nil }

func (e NodeAdded) Validate() error { return validateNodeID(e.NodeID) }
func (e NodeReady) Validate() error { return validateNodeID(e.NodeID) }

func (e ValueAdded) Validate() error {
	return validateValue(e.NodeID, e.ClassID, e.Value.Index)
}

func (e ValueChanged) Validate() error {
	return validateValue(e.NodeID, e.ClassID, e.Value.Index)
}

func (e ValueRemoved) Validate() error {
	return validateValue(e.NodeID, e.ClassID, e.Index)
}

func (e SceneEvent) Validate() error { return validateNodeID(e.NodeID) }

func (e Notification) Validate() error {
	if e.Code < 0 {
		return errors.Wrapf(ErrInvalidEvent, "negative notification code %d", e.Code)
	}
	return validateNodeID(e.NodeID)
}

func validateNodeID(nodeID int) error {
	if nodeID <= 0 {
		return errors.Wrapf(ErrInvalidEvent, "node id %d", nodeID)
	}
	return nil
}

func validateValue(nodeID, classID, index int) error {
	if err := validateNodeID(nodeID); err != nil {
		return err
	}
	if classID <= 0 {
		return errors.Wrapf(ErrInvalidEvent, "command class %d", classID)
	}
	if index < 0 {
		return errors.Wrapf(ErrInvalidEvent, "value index %d", index)
	}
	return nil
}

// nodeOf returns the node an event refers to, 0 for driver level events.
func nodeOf(ev Event) int {
	switch e := ev.(type) {
	case NodeAdded:
		return e.NodeID
	case NodeReady:
		return e.NodeID
	case ValueAdded:
		return e.NodeID
	case ValueChanged:
		return e.NodeID
	case ValueRemoved:
		return e.NodeID
	case SceneEvent:
		return e.NodeID
	case Notification:
		return e.NodeID
	}
	return 0
}
