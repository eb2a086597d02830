package entities

// ReplayEvent is one scripted driver event. Node ids may be written as
// numbers or strings.
type ReplayEvent struct {
	Event   string      `yaml:"event"`
	Node    interface{} `yaml:"node"`
	HomeID  uint32      `yaml:"homeId"`
	Class   int         `yaml:"class"`
	Index   int         `yaml:"index"`
	Value   Value       `yaml:"value"`
	Info    NodeInfo    `yaml:"info"`
	Scene   int         `yaml:"scene"`
	Code    int         `yaml:"code"`
	DelayMs int         `yaml:"delayMs"`
}
