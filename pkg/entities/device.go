package entities

const (
	SessionDisconnected string = "disconnected"
	SessionConnecting   string = "connecting"
	SessionScanning     string = "scanning"
	SessionOperational  string = "operational"
	SessionFailed       string = "failed"
)

// ControllerNodeID is the id the driver assigns to the controller stick.
const ControllerNodeID = 1

// NodeInfo is the identity a driver reports once a node is ready.
type NodeInfo struct {
	Manufacturer   string `yaml:"manufacturer" json:"manufacturer"`
	ManufacturerID string `yaml:"manufacturerid" json:"manufacturerid"`
	Product        string `yaml:"product" json:"product"`
	ProductType    string `yaml:"producttype" json:"producttype"`
	ProductID      string `yaml:"productid" json:"productid"`
	Type           string `yaml:"type" json:"type"`
	Name           string `yaml:"name" json:"name"`
	Location       string `yaml:"loc" json:"loc"`
}

// Complete reports whether classification can run for this identity.
func (n NodeInfo) Complete() bool {
	return n.Manufacturer != "" && n.Product != ""
}

type Value struct {
	Index    int                    `yaml:"index" json:"index"`
	Instance int                    `yaml:"instance" json:"instance,omitempty"`
	Label    string                 `yaml:"label" json:"label"`
	Units    string                 `yaml:"units" json:"units,omitempty"`
	Type     string                 `yaml:"type" json:"type,omitempty"`
	Genre    string                 `yaml:"genre" json:"genre,omitempty"`
	ReadOnly bool                   `yaml:"readOnly" json:"readOnly,omitempty"`
	Value    interface{}            `yaml:"value" json:"value"`
	Meta     map[string]interface{} `yaml:"meta" json:"meta,omitempty"`
}

type Node struct {
	ID      int                   `json:"id"`
	Info    NodeInfo              `json:"info"`
	Classes map[int]map[int]Value `json:"classes"`
	Ready   bool                  `json:"ready"`
	Scene   *int                  `json:"scene,omitempty"`
}

func (n Node) String() string {
	return n.Info.Manufacturer + " " + n.Info.Product + " (" + n.Info.Type + " '" +
		n.Info.ManufacturerID + "-" + n.Info.ProductType + "-" + n.Info.ProductID + "')"
}

type ConfigCommand struct {
	Param int `yaml:"param"`
	Value int `yaml:"value"`
	Size  int `yaml:"size"`
}

type PrimarySource int

const (
	PrimaryFixed PrimarySource = iota
	PrimaryNone
	PrimaryFirstObserved
)

type ClassificationRule struct {
	DeviceType   string
	Primary      PrimarySource
	CommandClass int
	ClassIndex   int
	Config       []ConfigCommand
}

type DescriptorExtra struct {
	StatusIn   string `json:"StatusIn,omitempty"`
	StatusOut  string `json:"StatusOut"`
	DeviceType string `json:"DeviceType"`
	UI         bool   `json:"ui"`
	Skale      string `json:"skale,omitempty"`
}

type FlowNodeDescriptor struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	X              int             `json:"x"`
	ProductName    string          `json:"productname"`
	ClassIndexName string          `json:"classindexname,omitempty"`
	NodeID         int             `json:"nodeid"`
	Type           string          `json:"type"`
	TypeNode       string          `json:"typeNode"`
	CommandClass   *int            `json:"commandclass,omitempty"`
	ClassIndex     *int            `json:"classindex,omitempty"`
	NodeInfo       NodeInfo        `json:"nodeInfo"`
	Mark           string          `json:"mark"`
	Extra          DescriptorExtra `json:"extra"`
	Broker         string          `json:"broker,omitempty"`
	Wires          [][]string      `json:"wires"`
}
