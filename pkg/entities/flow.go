package entities

// Flow is a tab of the flow-orchestration system that bridge nodes are
// added to.
type Flow struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
