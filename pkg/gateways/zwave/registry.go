package zwave

import (
	"reflect"
	"sort"
	"sync"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/pkg/errors"
)

// registry is the node table. Writes come from the session's event
// handlers only; reads may come from anywhere.
type registry struct {
	mu         sync.RWMutex
	nodes      map[int]*entities.Node
	identified map[int]bool
}

func newRegistry() *registry {
	return &registry{nodes: make(map[int]*entities.Node), identified: make(map[int]bool)}
}

func (r *registry) reset() {
	r.mu.Lock()
	r.nodes = make(map[int]*entities.Node)
	r.identified = make(map[int]bool)
	r.mu.Unlock()
}

// addNode creates a fresh record, replacing any previous one.
func (r *registry) addNode(nodeID int) {
	r.mu.Lock()
	r.nodes[nodeID] = &entities.Node{ID: nodeID, Classes: make(map[int]map[int]entities.Value)}
	delete(r.identified, nodeID)
	r.mu.Unlock()
}

// markReady stores the identity and reports whether this is the first
// complete identity seen for the record. A ready node with a partial
// identity stays unidentified until a later ready completes it.
func (r *registry) markReady(nodeID int, info entities.NodeInfo) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.lookup(nodeID)
	if err != nil {
		return false, err
	}
	n.Info = info
	n.Ready = true
	if !info.Complete() || r.identified[nodeID] {
		return false, nil
	}
	r.identified[nodeID] = true
	return true, nil
}

func (r *registry) addValue(nodeID, classID int, value entities.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.lookup(nodeID)
	if err != nil {
		return err
	}
	class, ok := n.Classes[classID]
	if !ok {
		class = make(map[int]entities.Value)
		n.Classes[classID] = class
	}
	class[value.Index] = value
	return nil
}

// changeValue stores candidate and reports whether it is a real change
// worth publishing. An equal value leaves the record untouched.
func (r *registry) changeValue(nodeID, classID int, candidate entities.Value) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.lookup(nodeID)
	if err != nil {
		return false, err
	}
	class, ok := n.Classes[classID]
	if !ok {
		class = make(map[int]entities.Value)
		n.Classes[classID] = class
	}
	var current *entities.Value
	if v, ok := class[candidate.Index]; ok {
		current = &v
	}
	switch {
	case isRealChange(current, candidate):
		class[candidate.Index] = candidate
		return true, nil
	case current == nil || current.Value == nil:
		class[candidate.Index] = candidate
	}
	return false, nil
}

// isRealChange holds when a current value is known and candidate differs
// from it.
func isRealChange(current *entities.Value, candidate entities.Value) bool {
	if current == nil || current.Value == nil {
		return false
	}
	return !sameValue(current.Value, candidate.Value)
}

// sameValue compares driver values. Numbers are equal when they hold the
// same value whatever their Go type.
func sameValue(a, b interface{}) bool {
	if x, ok := asFloat(a); ok {
		if y, ok := asFloat(b); ok {
			return x == y
		}
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func (r *registry) removeValue(nodeID, classID, index int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.lookup(nodeID)
	if err != nil {
		return false, err
	}
	class, ok := n.Classes[classID]
	if !ok {
		return false, nil
	}
	if _, ok := class[index]; !ok {
		return false, nil
	}
	delete(class, index)
	return true, nil
}

func (r *registry) setScene(nodeID, sceneID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.lookup(nodeID)
	if err != nil {
		return err
	}
	n.Scene = &sceneID
	return nil
}

func (r *registry) node(nodeID int) (entities.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[nodeID]
	if !ok {
		return entities.Node{}, false
	}
	return copyNode(n), true
}

// snapshot returns copies of every node sorted by id.
func (r *registry) snapshot() []entities.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nodes := make([]entities.Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		nodes = append(nodes, copyNode(n))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

func (r *registry) lookup(nodeID int) (*entities.Node, error) {
	n, ok := r.nodes[nodeID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNode, "node %d", nodeID)
	}
	return n, nil
}

func copyNode(n *entities.Node) entities.Node {
	c := *n
	c.Classes = make(map[int]map[int]entities.Value, len(n.Classes))
	for classID, values := range n.Classes {
		cv := make(map[int]entities.Value, len(values))
		for index, v := range values {
			cv[index] = v
		}
		c.Classes[classID] = cv
	}
	if n.Scene != nil {
		scene := *n.Scene
		c.Scene = &scene
	}
	return c
}
