package zwave

import (
	"testing"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRealChange(t *testing.T) {
	cases := map[string]struct {
		current   *entities.Value
		candidate interface{}
		expected  bool
	}{
		"no current":         {current: nil, candidate: 1, expected: false},
		"undefined current":  {current: &entities.Value{}, candidate: 1, expected: false},
		"equal":              {current: &entities.Value{Value: 1}, candidate: 1, expected: false},
		"different":          {current: &entities.Value{Value: 1}, candidate: 2, expected: true},
		"false to true":      {current: &entities.Value{Value: false}, candidate: true, expected: true},
		"equal structured":   {current: &entities.Value{Value: []interface{}{1, "a"}}, candidate: []interface{}{1, "a"}, expected: false},
		"value to undefined": {current: &entities.Value{Value: "on"}, candidate: nil, expected: true},
		"int and float same": {current: &entities.Value{Value: 1}, candidate: float64(1), expected: false},
		"uint and int same":  {current: &entities.Value{Value: uint8(99)}, candidate: 99, expected: false},
		"int and float diff": {current: &entities.Value{Value: 1}, candidate: 1.5, expected: true},
		"number and string":  {current: &entities.Value{Value: 1}, candidate: "1", expected: true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, isRealChange(c.current, entities.Value{Value: c.candidate}))
		})
	}
}

func TestChangeValueKeepsRecordOnEqualValue(t *testing.T) {
	r := newRegistry()
	r.addNode(2)
	require.NoError(t, r.addValue(2, 37, entities.Value{Index: 0, Label: "Switch", Value: true}))

	changed, err := r.changeValue(2, 37, entities.Value{Index: 0, Label: "other", Value: true})
	assert.NoError(t, err)
	assert.False(t, changed)
	node, _ := r.node(2)
	assert.Equal(t, "Switch", node.Classes[37][0].Label)

	changed, err = r.changeValue(2, 37, entities.Value{Index: 0, Label: "other", Value: false})
	assert.NoError(t, err)
	assert.True(t, changed)
	node, _ = r.node(2)
	assert.Equal(t, entities.Value{Index: 0, Label: "other", Value: false}, node.Classes[37][0])
}

func TestRegistryUnknownNode(t *testing.T) {
	r := newRegistry()
	_, err := r.changeValue(4, 37, entities.Value{})
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.ErrorIs(t, r.addValue(4, 37, entities.Value{}), ErrUnknownNode)
	assert.ErrorIs(t, r.setScene(4, 1), ErrUnknownNode)
	_, err = r.markReady(4, entities.NodeInfo{})
	assert.ErrorIs(t, err, ErrUnknownNode)
	_, err = r.removeValue(4, 37, 0)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestMarkReadyWaitsForCompleteIdentity(t *testing.T) {
	r := newRegistry()
	r.addNode(7)
	partial, err := r.markReady(7, entities.NodeInfo{ManufacturerID: "0x0086"})
	require.NoError(t, err)
	assert.False(t, partial)
	node, _ := r.node(7)
	assert.True(t, node.Ready)

	complete, _ := r.markReady(7, dimmerBulb)
	assert.True(t, complete)
	again, _ := r.markReady(7, dimmerBulb)
	assert.False(t, again)
}

func TestChangeValueMixedNumericTypes(t *testing.T) {
	r := newRegistry()
	r.addNode(2)
	require.NoError(t, r.addValue(2, 38, entities.Value{Index: 0, Value: 99}))

	changed, err := r.changeValue(2, 38, entities.Value{Index: 0, Value: float64(99)})
	assert.NoError(t, err)
	assert.False(t, changed)
	node, _ := r.node(2)
	assert.Equal(t, 99, node.Classes[38][0].Value)
}

func TestMarkReadyReportsFirstTransition(t *testing.T) {
	r := newRegistry()
	r.addNode(3)
	first, _ := r.markReady(3, dimmerBulb)
	again, _ := r.markReady(3, dimmerBulb)
	assert.True(t, first)
	assert.False(t, again)

	r.addNode(3)
	fresh, _ := r.markReady(3, dimmerBulb)
	assert.True(t, fresh)
}

func TestSnapshotIsSortedCopy(t *testing.T) {
	r := newRegistry()
	for _, id := range []int{5, 1, 3} {
		r.addNode(id)
	}
	require.NoError(t, r.addValue(3, 37, entities.Value{Index: 0, Value: true}))

	nodes := r.snapshot()
	require.Len(t, nodes, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{nodes[0].ID, nodes[1].ID, nodes[2].ID})

	nodes[1].Classes[37][0] = entities.Value{Value: false}
	node, _ := r.node(3)
	assert.Equal(t, true, node.Classes[37][0].Value)

	r.reset()
	assert.Zero(t, r.len())
}
