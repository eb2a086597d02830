package zwave

import (
	"fmt"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/logging"
)

type eventHandler interface {
	execute(Event)
	setNext(eventHandler)
}

type baseHandler struct {
	next eventHandler
	s    *Session
}

func (bh *baseHandler) execute(ev Event) {}

func (bh *baseHandler) setNext(next eventHandler) {
	bh.next = next
}

func newEventHandlerChain(s *Session) eventHandler {
	handlers := []eventHandler{
		&driverReadyHandler{baseHandler{s: s}},
		&driverFailedHandler{baseHandler{s: s}},
		&nodeAddedHandler{baseHandler{s: s}},
		&nodeReadyHandler{baseHandler{s: s}},
		&valueAddedHandler{baseHandler{s: s}},
		&valueChangedHandler{baseHandler{s: s}},
		&valueRemovedHandler{baseHandler{s: s}},
		&sceneEventHandler{baseHandler{s: s}},
		&notificationHandler{baseHandler{s: s}},
		&scanCompleteHandler{baseHandler{s: s}},
		&unhandledEventHandler{baseHandler{s: s}},
	}
	for i := 0; i < len(handlers)-1; i++ {
		handlers[i].setNext(handlers[i+1])
	}
	return handlers[0]
}

type driverReadyHandler struct {
	baseHandler
}

func (h *driverReadyHandler) execute(ev Event) {
	if e, ok := ev.(DriverReady); ok {
		h.s.connected = true
		h.s.state = entities.SessionScanning
		h.s.log.WithField("event", e.Kind()).Infof("scanning homeid=0x%x...", e.HomeID)
	} else {
		h.next.execute(ev)
	}
}

type driverFailedHandler struct {
	baseHandler
}

func (h *driverFailedHandler) execute(ev Event) {
	if _, ok := ev.(DriverFailed); ok {
		h.s.connected = false
		h.s.state = entities.SessionFailed
		h.s.log.Warnln("failed to start zwave driver")
		h.s.pending.settle(ErrDriverFailed)
	} else {
		h.next.execute(ev)
	}
}

type nodeAddedHandler struct {
	baseHandler
}

func (h *nodeAddedHandler) execute(ev Event) {
	if e, ok := ev.(NodeAdded); ok {
		h.s.registry.addNode(e.NodeID)
		h.s.metrics.nodes.Set(float64(h.s.registry.len()))
		logging.ForNode(h.s.log, e.NodeID).Debugln(e.Kind())
	} else {
		h.next.execute(ev)
	}
}

type nodeReadyHandler struct {
	baseHandler
}

func (h *nodeReadyHandler) execute(ev Event) {
	if e, ok := ev.(NodeReady); ok {
		h.s.nodeReady(e)
	} else {
		h.next.execute(ev)
	}
}

type valueAddedHandler struct {
	baseHandler
}

func (h *valueAddedHandler) execute(ev Event) {
	if e, ok := ev.(ValueAdded); ok {
		if err := h.s.registry.addValue(e.NodeID, e.ClassID, e.Value); err != nil {
			h.s.drop(ev, err)
			return
		}
		logging.ForNode(h.s.log, e.NodeID).Debugf("value added: comclass=%d; value[%d]['%s']=%v", e.ClassID, e.Value.Index, e.Value.Label, e.Value.Value)
		h.s.publishValue(e.NodeID, e.ClassID, e.Value)
	} else {
		h.next.execute(ev)
	}
}

type valueChangedHandler struct {
	baseHandler
}

func (h *valueChangedHandler) execute(ev Event) {
	if e, ok := ev.(ValueChanged); ok {
		changed, err := h.s.registry.changeValue(e.NodeID, e.ClassID, e.Value)
		if err != nil {
			h.s.drop(ev, err)
			return
		}
		if !changed {
			h.s.metrics.suppressed.Inc()
			return
		}
		h.s.publishValue(e.NodeID, e.ClassID, e.Value)
	} else {
		h.next.execute(ev)
	}
}

type valueRemovedHandler struct {
	baseHandler
}

func (h *valueRemovedHandler) execute(ev Event) {
	if e, ok := ev.(ValueRemoved); ok {
		removed, err := h.s.registry.removeValue(e.NodeID, e.ClassID, e.Index)
		if err != nil {
			h.s.drop(ev, err)
			return
		}
		logging.ForNode(h.s.log, e.NodeID).Debugf("value removed: comclass=%d, value[%d] present=%t", e.ClassID, e.Index, removed)
	} else {
		h.next.execute(ev)
	}
}

type sceneEventHandler struct {
	baseHandler
}

func (h *sceneEventHandler) execute(ev Event) {
	if e, ok := ev.(SceneEvent); ok {
		if err := h.s.registry.setScene(e.NodeID, e.SceneID); err != nil {
			h.s.drop(ev, err)
			return
		}
		logging.ForNode(h.s.log, e.NodeID).Infof("scene event: sceneid=%d", e.SceneID)
		h.s.metrics.publications.Inc()
		h.s.publisher.PublishScene(e.NodeID, e.SceneID)
	} else {
		h.next.execute(ev)
	}
}

type notificationHandler struct {
	baseHandler
}

func (h *notificationHandler) execute(ev Event) {
	if e, ok := ev.(Notification); ok {
		log := logging.ForNode(h.s.log, e.NodeID)
		label, shown := NotificationLabel(e.Code)
		if shown {
			log.Infoln("notification:", label)
		} else {
			log.Debugln("notification:", label)
		}
	} else {
		h.next.execute(ev)
	}
}

type scanCompleteHandler struct {
	baseHandler
}

func (h *scanCompleteHandler) execute(ev Event) {
	if _, ok := ev.(ScanComplete); ok {
		if h.s.state == entities.SessionScanning || h.s.state == entities.SessionConnecting {
			h.s.state = entities.SessionOperational
		}
		h.s.log.Infoln("scan complete")
		h.s.pending.settle(nil)
	} else {
		h.next.execute(ev)
	}
}

type unhandledEventHandler struct {
	baseHandler
}

func (h *unhandledEventHandler) execute(ev Event) {
	h.s.log.Warnln("unhandled driver event:", fmt.Sprintf("%T", ev))
}

var notificationLabels = map[int]string{
	0: "message complete",
	1: "timeout",
	2: "nop",
	3: "node awake",
	4: "node asleep",
	5: "node dead",
	6: "node alive",
}

// NotificationLabel maps a driver notification code to its label and
// whether it is worth logging.
func NotificationLabel(code int) (string, bool) {
	label, ok := notificationLabels[code]
	if !ok {
		return "unhandled notification", false
	}
	return label, code != 2 && code != 4
}
