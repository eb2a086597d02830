package network

import (
	"strings"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultInstance = 1

// Commander is the inbound command surface of the bridge.
type Commander interface {
	AddNode() error
	SetValue(nodeID, classID, instance, index int, value interface{}) error
}

// CommandSubscriber routes bus commands to a Commander:
//
//	<topic>/addnode                       -> AddNode
//	<topic>/<node>/<class>/<index>/set    -> SetValue
type CommandSubscriber struct {
	subscriber Subscriber
	topic      string
	commander  Commander
	log        logrus.FieldLogger
}

func NewCommandSubscriber(subscriber Subscriber, topic string, commander Commander, log logrus.FieldLogger) *CommandSubscriber {
	return &CommandSubscriber{subscriber: subscriber, topic: topic, commander: commander, log: log}
}

func (cs *CommandSubscriber) AddNodeFilter() string  { return cs.topic + "/addnode" }
func (cs *CommandSubscriber) SetValueFilter() string { return cs.topic + "/+/+/+/set" }

func (cs *CommandSubscriber) SubscribeToCommands() error {
	var err error
	subscribe := func(filter string, handler MessageHandler) {
		if err != nil {
			return
		}
		err = cs.subscriber.Subscribe(filter, handler)
	}

	subscribe(cs.AddNodeFilter(), cs.handleAddNode)
	subscribe(cs.SetValueFilter(), cs.handleSetValue)

	return errors.Wrap(err, "subscribe to commands")
}

func (cs *CommandSubscriber) handleAddNode(topic string, payload []byte) error {
	cs.log.Infoln("inclusion requested")
	return cs.commander.AddNode()
}

func (cs *CommandSubscriber) handleSetValue(topic string, payload []byte) error {
	rest := strings.TrimPrefix(topic, cs.topic+"/")
	parts := strings.Split(rest, "/")
	if rest == topic || len(parts) != 4 || parts[3] != "set" {
		return errors.Errorf("unexpected command topic %s", topic)
	}
	nodeID := utils.EnsureNumber(parts[0])
	if nodeID <= 0 {
		return errors.Errorf("invalid node id in %s", topic)
	}
	value := utils.DecodePayload(payload)
	return cs.commander.SetValue(nodeID, utils.EnsureNumber(parts[1]), defaultInstance, utils.EnsureNumber(parts[2]), value)
}
