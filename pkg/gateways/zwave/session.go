package zwave

import (
	"context"
	"sync"
	"time"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/flows"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/zwave/network"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/logging"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const registrationTimeout = 30 * time.Second

var (
	flowFilter           = map[string]interface{}{"type": "zwave"}
	registrationKeys     = []string{"nodeid"}
	polledCommandClasses = []int{ClassBinarySwitch, ClassMultilevelSwitch}
)

// completion settles a Start call exactly once.
type completion struct {
	once sync.Once
	done chan error
}

func newCompletion() *completion {
	return &completion{done: make(chan error, 1)}
}

func (c *completion) settle(err error) {
	c.once.Do(func() {
		c.done <- err
		close(c.done)
	})
}

// Session owns the driver connection and the node registry. Driver
// events are handled one at a time.
type Session struct {
	driver     Driver
	registrar  flows.Registrar
	bus        network.Bus
	classifier *Classifier
	metrics    *metrics
	log        logrus.FieldLogger
	registry   *registry
	handlers   eventHandler

	mu         sync.Mutex
	state      string
	connected  bool
	devicePath string
	publisher  network.Publisher
	builder    DescriptorBuilder
	pending    *completion

	registrations sync.WaitGroup
}

// NewSession builds a session. bus and registrar may be nil: publishing
// is then a no-op and nodes are not announced. Metrics go to reg, or to
// a private registry when reg is nil.
func NewSession(driver Driver, registrar flows.Registrar, bus network.Bus, log logrus.FieldLogger, reg prometheus.Registerer) *Session {
	s := &Session{
		driver:     driver,
		registrar:  registrar,
		bus:        bus,
		classifier: NewClassifier(log),
		metrics:    newMetrics(reg),
		log:        log,
		registry:   newRegistry(),
		state:      entities.SessionDisconnected,
		pending:    newCompletion(),
	}
	s.publisher = network.NewMsgPublisher(bus, entities.IntegrationZWaveConfig{}.WithDefaults().Topic, log)
	s.handlers = newEventHandlerChain(s)
	return s
}

// Start (re)connects the driver. A running session is torn down first
// and its registry wiped. The returned channel yields nil once the scan
// completes or ErrDriverFailed if the driver fails first, then closes.
// Start imposes no timeout.
func (s *Session) Start(conf entities.IntegrationZWaveConfig) <-chan error {
	conf = conf.WithDefaults()

	s.detach()

	s.mu.Lock()
	s.devicePath = conf.DevicePath
	s.publisher = network.NewMsgPublisher(s.bus, conf.Topic, s.log)
	s.builder = NewDescriptorBuilder(conf)
	s.registry.reset()
	s.metrics.nodes.Set(0)
	s.pending = newCompletion()
	s.state = entities.SessionConnecting
	pending := s.pending
	s.mu.Unlock()

	s.driver.Listen(s.dispatch)
	if err := s.driver.Connect(conf.DevicePath); err != nil {
		s.log.Errorln("connect failed:", err)
		s.mu.Lock()
		if s.pending == pending {
			s.state = entities.SessionFailed
		}
		s.mu.Unlock()
		pending.settle(errors.Wrapf(ErrDriverFailed, "connect %s: %v", conf.DevicePath, err))
	}
	return pending.done
}

// Stop detaches from the driver and waits for in-flight registrations.
// Events delivered afterwards are ignored.
func (s *Session) Stop() {
	s.detach()
	s.registrations.Wait()
}

// detach stops event handling and disconnects the driver. Disconnect
// runs without s.mu held: the driver may be delivering an event that is
// waiting for it.
func (s *Session) detach() {
	s.mu.Lock()
	s.driver.RemoveAllListeners()
	connected, devicePath := s.connected, s.devicePath
	s.connected = false
	s.state = entities.SessionDisconnected
	s.mu.Unlock()

	if !connected {
		return
	}
	if err := s.driver.Disconnect(devicePath); err != nil {
		s.log.Debugln("disconnect:", err)
	}
}

func (s *Session) dispatch(ev Event) {
	if err := ev.Validate(); err != nil {
		s.log.WithField("event", ev.Kind()).Warnln("invalid driver event dropped:", err)
		s.metrics.dropped.WithLabelValues(ev.Kind()).Inc()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == entities.SessionDisconnected {
		s.log.WithField("event", ev.Kind()).Debugln("event after disconnect ignored")
		return
	}
	s.metrics.events.WithLabelValues(ev.Kind()).Inc()
	s.handlers.execute(ev)
}

func (s *Session) drop(ev Event, err error) {
	logging.ForNode(s.log, nodeOf(ev)).WithField("event", ev.Kind()).Warnln("event dropped:", err)
	s.metrics.dropped.WithLabelValues(ev.Kind()).Inc()
}

func (s *Session) publishValue(nodeID, classID int, value entities.Value) {
	s.metrics.publications.Inc()
	s.publisher.PublishValue(nodeID, classID, value.Index, value.Value)
}

func (s *Session) nodeReady(e NodeReady) {
	identified, err := s.registry.markReady(e.NodeID, e.Info)
	if err != nil {
		s.drop(e, err)
		return
	}
	node, _ := s.registry.node(e.NodeID)
	log := logging.ForNode(s.log, e.NodeID)
	log.Infoln("ready:", node.String())

	if e.Info.Complete() {
		if e.NodeID != entities.ControllerNodeID && identified {
			s.classify(node)
		}
		for _, classID := range polledCommandClasses {
			if _, ok := node.Classes[classID]; !ok {
				continue
			}
			if err := s.driver.EnablePoll(e.NodeID, classID); err != nil {
				log.Debugf("enable poll on class %d: %v", classID, err)
			}
		}
		s.dumpNodes()
	}

	s.metrics.publications.Inc()
	s.publisher.PublishNodeReady(e.NodeID)
}

// classify runs the classification pipeline for a freshly ready node and
// hands the resulting descriptor to the registrar in the background.
func (s *Session) classify(node entities.Node) {
	log := logging.ForNode(s.log, node.ID)
	rule := s.classifier.Classify(node.ID, node.Info)
	for _, cmd := range rule.Config {
		if err := s.driver.SetConfigParam(node.ID, cmd.Param, cmd.Value, cmd.Size); err != nil {
			log.Debugf("config param %d: %v", cmd.Param, err)
		}
	}
	if s.registrar == nil {
		return
	}

	var commandClass, classIndex *int
	if cc, ci, ok := resolvePrimary(rule, node); ok {
		commandClass, classIndex = &cc, &ci
	}
	desc := s.builder.Build(s.registrar.GenerateNodeID(), node, rule.DeviceType, commandClass, classIndex)

	s.registrations.Add(1)
	go func() {
		defer s.registrations.Done()
		ctx, cancel := context.WithTimeout(context.Background(), registrationTimeout)
		defer cancel()
		if err := s.register(ctx, desc); err != nil {
			s.metrics.registrations.WithLabelValues("failed").Inc()
			log.Errorln("flow registration failed:", err)
			return
		}
		s.metrics.registrations.WithLabelValues("ok").Inc()
		log.Infof("registered as %s", desc.Type)
	}()
}

func (s *Session) register(ctx context.Context, desc entities.FlowNodeDescriptor) error {
	flow, err := s.registrar.GetFlowFromNode(ctx, flowFilter)
	if err != nil {
		return errors.Wrap(err, "find zwave flow")
	}
	if flow == nil {
		return ErrNoFlow
	}
	err = s.registrar.AddToFlow(ctx, flow.ID, flow.Label, []entities.FlowNodeDescriptor{desc}, nil, registrationKeys)
	return errors.Wrapf(err, "add node %d to flow %s", desc.NodeID, flow.ID)
}

func (s *Session) dumpNodes() {
	nodes := s.registry.snapshot()
	if len(nodes) == 0 {
		return
	}
	byID := make(map[int]entities.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	s.log.Infoln("--- ZWave Dongle ---------------------")
	for id := 1; id <= nodes[len(nodes)-1].ID; id++ {
		n, ok := byID[id]
		log := logging.ForNode(s.log, id)
		switch {
		case !ok:
			log.Infoln("empty")
		case n.Ready:
			log.Infoln(n.String())
		case len(n.Classes) > 1:
			log.Infoln("alive but no infos yet")
		default:
			log.Infoln("no infos yet")
		}
	}
	s.log.Infoln("--------------------------------------")
}

// AddNode puts the controller in inclusion mode. It does nothing while
// disconnected.
func (s *Session) AddNode() error {
	if !s.Connected() {
		s.log.Debugln("add node ignored: not connected")
		return nil
	}
	return s.driver.AddNode()
}

// SetValue forwards a value command to the driver. It does nothing while
// disconnected.
func (s *Session) SetValue(nodeID, classID, instance, index int, value interface{}) error {
	if !s.Connected() {
		logging.ForNode(s.log, nodeID).Debugln("set value ignored: not connected")
		return nil
	}
	return s.driver.SetValue(nodeID, classID, instance, index, value)
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Nodes returns a copy of the registry sorted by node id.
func (s *Session) Nodes() []entities.Node {
	return s.registry.snapshot()
}

func (s *Session) Node(nodeID int) (entities.Node, bool) {
	return s.registry.node(nodeID)
}

// waitRegistrations blocks until background registrations are done.
func (s *Session) waitRegistrations() {
	s.registrations.Wait()
}
