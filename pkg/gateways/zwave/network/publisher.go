package network

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	defaultQoS    byte = 0
	defaultRetain      = false
)

// Publisher turns registry transitions into bus messages. It is safe to
// use without a bus; every call is then a no-op.
type Publisher interface {
	Publish(topic string, payload interface{}, qos byte, retain bool)
	PublishNodeReady(nodeID int)
	PublishValue(nodeID, classID, index int, value interface{})
	PublishScene(nodeID, sceneID int)
}

type msgPublisher struct {
	bus   Bus
	topic string
	log   logrus.FieldLogger
}

func NewMsgPublisher(bus Bus, topic string, log logrus.FieldLogger) Publisher {
	return &msgPublisher{bus: bus, topic: topic, log: log}
}

func NodeReadyTopic(topic string, nodeID int) string {
	return fmt.Sprintf("%s/nodeready/%d", topic, nodeID)
}

func ValueTopic(topic string, nodeID, classID, index int) string {
	return fmt.Sprintf("%s/%d/%d/%d", topic, nodeID, classID, index)
}

func SceneTopic(topic string, nodeID int) string {
	return fmt.Sprintf("%s/%d/scene", topic, nodeID)
}

func (mp *msgPublisher) Publish(topic string, payload interface{}, qos byte, retain bool) {
	if mp.bus == nil {
		return
	}
	if err := mp.bus.Publish(topic, payload, qos, retain); err != nil {
		mp.log.WithField("topic", topic).Warnln("publish failed:", err)
	}
}

func (mp *msgPublisher) PublishNodeReady(nodeID int) {
	mp.Publish(NodeReadyTopic(mp.topic, nodeID), true, defaultQoS, defaultRetain)
}

func (mp *msgPublisher) PublishValue(nodeID, classID, index int, value interface{}) {
	mp.Publish(ValueTopic(mp.topic, nodeID, classID, index), value, defaultQoS, defaultRetain)
}

func (mp *msgPublisher) PublishScene(nodeID, sceneID int) {
	mp.Publish(SceneTopic(mp.topic, nodeID), sceneID, defaultQoS, defaultRetain)
}
