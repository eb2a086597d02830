package zwave

import (
	"sort"
	"strings"
	"sync"

	bloomFilter "github.com/bits-and-blooms/bloom/v3"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/sirupsen/logrus"
)

const (
	GenericDeviceType = "zwave-generic"

	ClassBinarySwitch     = 0x25
	ClassMultilevelSwitch = 0x26
	ClassBinarySensor     = 0x30

	unknownProductsCapacity    = 10000
	unknownProductsProbability = 0.01
	hexPrefixSize              = 2
)

var hiddenCommandClasses = []int{50, 94, 112, 115, 132, 134}

// HiddenCommandClasses lists the command classes user interfaces should
// not show.
func HiddenCommandClasses() []int {
	return append([]int(nil), hiddenCommandClasses...)
}

func ComclassShowable(classID int) bool {
	for _, hidden := range hiddenCommandClasses {
		if hidden == classID {
			return false
		}
	}
	return true
}

func fixed(deviceType string, commandClass, classIndex int, config ...entities.ConfigCommand) entities.ClassificationRule {
	return entities.ClassificationRule{DeviceType: deviceType, Primary: entities.PrimaryFixed, CommandClass: commandClass, ClassIndex: classIndex, Config: config}
}

var (
	lightDimmer = fixed("zwave-light-dimmer-switch", ClassMultilevelSwitch, 0)
	plugSwitch  = fixed("zwave-binary-switch", ClassBinarySwitch, 0)
	fibaroPIR   = fixed(GenericDeviceType, ClassBinarySensor, 0)
	// PIR on-time 30s, sensitivity, report on binary sensor class
	aeotecMultiSensor = fixed(GenericDeviceType, ClassBinarySensor, 0,
		entities.ConfigCommand{Param: 3, Value: 30, Size: 2},
		entities.ConfigCommand{Param: 4, Value: 1, Size: 1},
		entities.ConfigCommand{Param: 5, Value: 1, Size: 1},
	)
)

var classificationTable = map[string]entities.ClassificationRule{
	// Aeotec ZW098 LED Bulb, Zipato RGBW LED Bulb
	"0086-0003-0062": lightDimmer,
	"0086-0103-0062": lightDimmer,
	"0086-0203-0062": lightDimmer,
	"0131-0002-0002": lightDimmer,

	// NodOn CRC-3-6-0x Soft Remote, scene mode enabled
	"0165-0002-0002": {
		DeviceType: "nodonSoftRemote",
		Primary:    entities.PrimaryNone,
		Config:     []entities.ConfigCommand{{Param: 3, Value: 1, Size: 1}},
	},

	// FIBARO FGWPE Wall Plug and Button, NodOn ASP-3-1-00, AN157, Everspring AD147
	"010f-0600-1000": plugSwitch,
	"010f-0f01-1000": plugSwitch,
	"0165-0001-0001": plugSwitch,
	"0060-0004-0001": plugSwitch,
	"0060-0003-0003": plugSwitch,

	// FIBARO FGMS001 Motion Sensor
	"010f-0800-1001": fibaroPIR,
	"010f-0800-2001": fibaroPIR,
	"010f-0800-4001": fibaroPIR,
	"010f-0801-1001": fibaroPIR,
	"010f-0801-2001": fibaroPIR,

	// FIBARO FGK101 Door Opening Sensor
	"010f-0700-1000": fibaroPIR,
	"010f-0700-2000": fibaroPIR,
	"010f-0700-3000": fibaroPIR,
	"010f-0700-4000": fibaroPIR,

	// Aeotec ZW074 MultiSensor Gen5 and MultiSensor 6
	"0086-0002-004a": aeotecMultiSensor,
	"0086-0102-004a": aeotecMultiSensor,
	"0086-0202-004a": aeotecMultiSensor,
	"0086-0002-0064": aeotecMultiSensor,
	"0086-0102-0064": aeotecMultiSensor,
	"0086-0202-0064": aeotecMultiSensor,

	// Qubino Flush 2 Relay
	"0159-0002-0051": {DeviceType: "zwave-binary-switch", Primary: entities.PrimaryFirstObserved},
}

// ProductKey builds the lookup key "mfg-type-product" from an identity,
// dropping the "0x" prefix of every id.
func ProductKey(info entities.NodeInfo) string {
	return strings.ToLower(stripHexPrefix(info.ManufacturerID) + "-" +
		stripHexPrefix(info.ProductType) + "-" + stripHexPrefix(info.ProductID))
}

func stripHexPrefix(id string) string {
	if len(id) < hexPrefixSize {
		return ""
	}
	return id[hexPrefixSize:]
}

// Lookup returns the rule for a product key. Unknown keys get the generic
// rule and false.
func Lookup(productKey string) (entities.ClassificationRule, bool) {
	rule, ok := classificationTable[strings.ToLower(productKey)]
	if !ok {
		return entities.ClassificationRule{DeviceType: GenericDeviceType, Primary: entities.PrimaryFirstObserved}, false
	}
	rule.Config = append([]entities.ConfigCommand(nil), rule.Config...)
	return rule, true
}

// Classifier wraps Lookup and reports each unknown product once.
type Classifier struct {
	mu      sync.Mutex
	unknown *bloomFilter.BloomFilter
	log     logrus.FieldLogger
}

func NewClassifier(log logrus.FieldLogger) *Classifier {
	return &Classifier{
		unknown: bloomFilter.NewWithEstimates(unknownProductsCapacity, unknownProductsProbability),
		log:     log,
	}
}

func (c *Classifier) Classify(nodeID int, info entities.NodeInfo) entities.ClassificationRule {
	key := ProductKey(info)
	rule, known := Lookup(key)
	if !known {
		c.reportUnknown(nodeID, key)
	}
	return rule
}

func (c *Classifier) reportUnknown(nodeID int, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unknown.Test([]byte(key)) {
		return
	}
	c.unknown.Add([]byte(key))
	c.log.WithField("node", nodeID).Infof("handled as generic (productID:%s)", key)
}

// resolvePrimary returns the primary command class and index of a node
// for rule. ok is false when the rule has none or nothing was observed.
func resolvePrimary(rule entities.ClassificationRule, node entities.Node) (commandClass, classIndex int, ok bool) {
	switch rule.Primary {
	case entities.PrimaryFixed:
		return rule.CommandClass, rule.ClassIndex, true
	case entities.PrimaryFirstObserved:
		return firstObserved(node.Classes)
	}
	return 0, 0, false
}

// firstObserved picks the smallest class id holding a value, then the
// smallest index in it.
func firstObserved(classes map[int]map[int]entities.Value) (int, int, bool) {
	classIDs := make([]int, 0, len(classes))
	for classID, values := range classes {
		if len(values) > 0 {
			classIDs = append(classIDs, classID)
		}
	}
	if len(classIDs) == 0 {
		return 0, 0, false
	}
	sort.Ints(classIDs)
	indexes := make([]int, 0, len(classes[classIDs[0]]))
	for index := range classes[classIDs[0]] {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	return classIDs[0], indexes[0], true
}
