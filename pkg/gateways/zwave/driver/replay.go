package driver

import (
	"sync"
	"time"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/zwave"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Command is a driver call recorded by Replay.
type Command struct {
	Name string
	Args []interface{}
}

// Replay is a zwave.Driver without hardware: Connect plays a scripted
// list of events and every command is recorded.
type Replay struct {
	script []entities.ReplayEvent
	log    logrus.FieldLogger

	mu        sync.Mutex
	listeners []func(zwave.Event)
	stop      chan struct{}
	commands  []Command
	playing   sync.WaitGroup
}

func NewReplay(script []entities.ReplayEvent, log logrus.FieldLogger) *Replay {
	return &Replay{script: script, log: log}
}

// LoadReplay reads a YAML event script.
func LoadReplay(path string, log logrus.FieldLogger) (*Replay, error) {
	script, err := utils.ConfigurationParser(path, []entities.ReplayEvent{})
	if err != nil {
		return nil, errors.Wrapf(err, "read replay script %s", path)
	}
	return NewReplay(script, log), nil
}

func (r *Replay) Connect(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return errors.Errorf("%s already connected", path)
	}
	r.stop = make(chan struct{})
	r.log.Infof("replaying %d event(s) as %s", len(r.script), path)
	r.playing.Add(1)
	go r.play(r.stop)
	return nil
}

// Disconnect stops the script and returns once no event is being
// delivered.
func (r *Replay) Disconnect(path string) error {
	r.mu.Lock()
	if r.stop == nil {
		r.mu.Unlock()
		return errors.Errorf("%s not connected", path)
	}
	close(r.stop)
	r.stop = nil
	r.mu.Unlock()

	r.playing.Wait()
	return nil
}

func (r *Replay) Listen(listener func(zwave.Event)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, listener)
	r.mu.Unlock()
}

func (r *Replay) RemoveAllListeners() {
	r.mu.Lock()
	r.listeners = nil
	r.mu.Unlock()
}

func (r *Replay) AddNode() error {
	r.record("AddNode")
	return nil
}

func (r *Replay) SetValue(nodeID, classID, instance, index int, value interface{}) error {
	r.record("SetValue", nodeID, classID, instance, index, value)
	return nil
}

func (r *Replay) EnablePoll(nodeID, classID int) error {
	r.record("EnablePoll", nodeID, classID)
	return nil
}

func (r *Replay) SetConfigParam(nodeID, param, value, size int) error {
	r.record("SetConfigParam", nodeID, param, value, size)
	return nil
}

// Commands returns the recorded commands in call order.
func (r *Replay) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Wait blocks until the current script has been played.
func (r *Replay) Wait() {
	r.playing.Wait()
}

func (r *Replay) record(name string, args ...interface{}) {
	r.mu.Lock()
	r.commands = append(r.commands, Command{Name: name, Args: args})
	r.mu.Unlock()
	r.log.WithField("command", name).Debugln(args...)
}

func (r *Replay) play(stop chan struct{}) {
	defer r.playing.Done()
	for i, scripted := range r.script {
		if scripted.DelayMs > 0 {
			select {
			case <-stop:
				return
			case <-time.After(time.Duration(scripted.DelayMs) * time.Millisecond):
			}
		}
		select {
		case <-stop:
			return
		default:
		}
		ev, err := ToEvent(scripted)
		if err != nil {
			r.log.Warnf("replay event %d skipped: %v", i, err)
			continue
		}
		r.emit(ev)
	}
}

func (r *Replay) emit(ev zwave.Event) {
	r.mu.Lock()
	listeners := make([]func(zwave.Event), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()
	for _, listener := range listeners {
		listener(ev)
	}
}

// ToEvent converts a scripted event into a driver event.
func ToEvent(e entities.ReplayEvent) (zwave.Event, error) {
	nodeID := utils.EnsureNumber(e.Node)
	switch e.Event {
	case zwave.KindDriverReady:
		return zwave.DriverReady{HomeID: e.HomeID}, nil
	case zwave.KindDriverFailed:
		return zwave.DriverFailed{}, nil
	case zwave.KindNodeAdded:
		return zwave.NodeAdded{NodeID: nodeID}, nil
	case zwave.KindNodeReady:
		return zwave.NodeReady{NodeID: nodeID, Info: e.Info}, nil
	case zwave.KindValueAdded:
		return zwave.ValueAdded{NodeID: nodeID, ClassID: e.Class, Value: e.Value}, nil
	case zwave.KindValueChanged:
		return zwave.ValueChanged{NodeID: nodeID, ClassID: e.Class, Value: e.Value}, nil
	case zwave.KindValueRemoved:
		return zwave.ValueRemoved{NodeID: nodeID, ClassID: e.Class, Index: e.Index}, nil
	case zwave.KindSceneEvent:
		return zwave.SceneEvent{NodeID: nodeID, SceneID: e.Scene}, nil
	case zwave.KindNotification:
		return zwave.Notification{NodeID: nodeID, Code: e.Code}, nil
	case zwave.KindScanComplete:
		return zwave.ScanComplete{}, nil
	}
	return nil, errors.Wrapf(zwave.ErrInvalidEvent, "unknown event %q", e.Event)
}
