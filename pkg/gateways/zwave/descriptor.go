package zwave

import (
	"fmt"
	"strings"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
)

const descriptorX = 270

var tagletByDeviceType = map[string]string{
	"zwave-binary-switch":                "switch",
	"zwave-light-dimmer-switch":          "light",
	"zwave-remote-control-multi-purpose": "remote",
	"nodonSoftRemote":                    "remote",
	"zwave-motion-sensor":                "motion",
	"zwave-binary-sensor":                "motion",
	"aeotecMultiSensor":                  "motion",
}

// Taglet returns the capability tag of a device type, "" when unmapped.
func Taglet(deviceType string) string {
	return tagletByDeviceType[deviceType]
}

// DescriptorBuilder turns a classified node into the flow node announced
// to the registrar.
type DescriptorBuilder struct {
	Topic        string
	Broker       string
	StatusPrefix string
	TagletHost   string
}

func NewDescriptorBuilder(conf entities.IntegrationZWaveConfig) DescriptorBuilder {
	return DescriptorBuilder{
		Topic:        conf.Topic,
		Broker:       conf.Broker,
		StatusPrefix: conf.StatusPrefix,
		TagletHost:   conf.SkaleTagletHost,
	}
}

func (b DescriptorBuilder) StatusTopic(nodeID int, direction string) string {
	return fmt.Sprintf("%s/%s/%d/%s", b.StatusPrefix, b.Topic, nodeID, direction)
}

// Build assembles the descriptor. commandClass and classIndex are nil
// when the device type has no primary value.
func (b DescriptorBuilder) Build(id string, node entities.Node, deviceType string, commandClass, classIndex *int) entities.FlowNodeDescriptor {
	desc := entities.FlowNodeDescriptor{
		ID:           id,
		X:            descriptorX,
		ProductName:  node.Info.Manufacturer + " - " + node.Info.Product,
		NodeID:       node.ID,
		Type:         deviceType,
		TypeNode:     deviceType,
		CommandClass: commandClass,
		ClassIndex:   classIndex,
		NodeInfo:     node.Info,
		Mark:         strings.ToLower(strings.ReplaceAll(node.Info.Manufacturer, " ", "")) + ".png",
		Extra: entities.DescriptorExtra{
			StatusIn:   b.StatusTopic(node.ID, "in"),
			StatusOut:  b.StatusTopic(node.ID, "out"),
			DeviceType: node.Info.Type,
			UI:         true,
		},
		Wires: [][]string{{}},
	}
	if commandClass != nil && classIndex != nil {
		if v, ok := node.Classes[*commandClass][*classIndex]; ok {
			desc.ClassIndexName = v.Label
		}
	}
	if isEventSource(deviceType) {
		desc.Extra.StatusIn = ""
	}
	if !strings.Contains(deviceType, "subflow") {
		desc.Broker = b.Broker
	}
	if taglet := Taglet(deviceType); taglet != "" {
		desc.Extra.Skale = fmt.Sprintf("%s/com.daw.%s.taglet", b.TagletHost, taglet)
	}
	return desc
}

// isEventSource reports device types that take no commands.
func isEventSource(deviceType string) bool {
	t := strings.ToLower(deviceType)
	return strings.Contains(t, "remote") || strings.Contains(t, "motion") || strings.Contains(t, "binary")
}
