package flows

import (
	"context"
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	tabType    = "tab"
	nodeIDSize = 16
)

// Registrar is the flow-orchestration collaborator that receives bridge
// nodes.
type Registrar interface {
	GetFlowFromNode(ctx context.Context, filter map[string]interface{}) (*entities.Flow, error)
	AddToFlow(ctx context.Context, flowID, label string, nodes []entities.FlowNodeDescriptor, extra []map[string]interface{}, keyFields []string) error
	GenerateNodeID() string
}

type flowNode = map[string]interface{}

// FileRegistrar keeps flows in a Node-RED style JSON file: one array
// holding tabs (type "tab") and the nodes that live on them (field "z").
type FileRegistrar struct {
	path           string
	fileManagement filesystemManagement
	log            logrus.FieldLogger
	mu             sync.Mutex
}

func NewFileRegistrar(path string, log logrus.FieldLogger) *FileRegistrar {
	return newFileRegistrar(path, new(fileManagement), log)
}

func newFileRegistrar(path string, fm filesystemManagement, log logrus.FieldLogger) *FileRegistrar {
	return &FileRegistrar{path: path, fileManagement: fm, log: log}
}

// GenerateNodeID returns a fresh 16 character hex id.
func (r *FileRegistrar) GenerateNodeID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:nodeIDSize]
}

// GetFlowFromNode returns the tab holding the first node whose fields
// equal every entry of filter, or nil when no node matches.
func (r *FileRegistrar) GetFlowFromNode(ctx context.Context, filter map[string]interface{}) (*entities.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	nodes, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n["type"] == tabType || !matches(n, filter) {
			continue
		}
		z, _ := n["z"].(string)
		if z == "" {
			continue
		}
		flow := &entities.Flow{ID: z}
		if tab := findTab(nodes, z); tab != nil {
			flow.Label, _ = tab["label"].(string)
		}
		return flow, nil
	}
	return nil, nil
}

// AddToFlow upserts nodes into the flow. A node already in the flow with
// the same keyFields values is replaced in place and keeps its id,
// position and wires.
func (r *FileRegistrar) AddToFlow(ctx context.Context, flowID, label string, nodes []entities.FlowNodeDescriptor, extra []map[string]interface{}, keyFields []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if flowID == "" {
		return errors.New("flow id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.read()
	if err != nil {
		return err
	}
	if findTab(current, flowID) == nil {
		current = append(current, flowNode{"id": flowID, "type": tabType, "label": label})
	}

	incoming, err := toFlowNodes(nodes)
	if err != nil {
		return err
	}
	incoming = append(incoming, extra...)
	for _, n := range incoming {
		n["z"] = flowID
		current = upsert(current, n, keyFields)
	}

	data, err := json.MarshalIndent(current, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode flows")
	}
	if err := r.fileManagement.writeFlowsFile(r.path, data); err != nil {
		return errors.Wrapf(err, "write flows file %s", r.path)
	}
	r.log.WithField("flow", flowID).Infof("added %d node(s) to flow", len(incoming))
	return nil
}

func (r *FileRegistrar) read() ([]flowNode, error) {
	data, err := r.fileManagement.readFlowsFile(r.path)
	if os.IsNotExist(errors.Cause(err)) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read flows file %s", r.path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var nodes []flowNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, errors.Wrapf(err, "decode flows file %s", r.path)
	}
	return nodes, nil
}

func toFlowNodes(descriptors []entities.FlowNodeDescriptor) ([]flowNode, error) {
	data, err := json.Marshal(descriptors)
	if err != nil {
		return nil, errors.Wrap(err, "encode descriptors")
	}
	var nodes []flowNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, errors.Wrap(err, "decode descriptors")
	}
	return nodes, nil
}

func upsert(nodes []flowNode, n flowNode, keyFields []string) []flowNode {
	if len(keyFields) > 0 {
		for i, existing := range nodes {
			if existing["z"] != n["z"] || !sameKeys(existing, n, keyFields) {
				continue
			}
			for _, kept := range []string{"id", "x", "y", "wires"} {
				if v, ok := existing[kept]; ok {
					n[kept] = v
				}
			}
			nodes[i] = n
			return nodes
		}
	}
	return append(nodes, n)
}

func sameKeys(a, b flowNode, keyFields []string) bool {
	for _, k := range keyFields {
		av, aok := a[k]
		bv, bok := b[k]
		if !aok || !bok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}

func matches(n flowNode, filter map[string]interface{}) bool {
	for k, v := range filter {
		if !reflect.DeepEqual(n[k], v) {
			return false
		}
	}
	return true
}

func findTab(nodes []flowNode, id string) flowNode {
	for _, n := range nodes {
		if n["type"] == tabType && n["id"] == id {
			return n
		}
	}
	return nil
}
