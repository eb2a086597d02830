package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNodes struct {
	nodes []entities.Node
}

func (f *fakeNodes) Nodes() []entities.Node {
	var copied []entities.Node
	for _, n := range f.nodes {
		copied = append(copied, f.copy(n))
	}
	return copied
}

func (f *fakeNodes) Node(nodeID int) (entities.Node, bool) {
	for _, n := range f.nodes {
		if n.ID == nodeID {
			return f.copy(n), true
		}
	}
	return entities.Node{}, false
}

func (f *fakeNodes) State() string { return entities.SessionOperational }

func (f *fakeNodes) copy(n entities.Node) entities.Node {
	classes := make(map[int]map[int]entities.Value, len(n.Classes))
	for k, v := range n.Classes {
		classes[k] = v
	}
	n.Classes = classes
	return n
}

func newTestServer() *httptest.Server {
	source := &fakeNodes{nodes: []entities.Node{{
		ID:    3,
		Ready: true,
		Info:  entities.NodeInfo{Manufacturer: "Aeotec", Product: "ZW098 LED Bulb"},
		Classes: map[int]map[int]entities.Value{
			38:  {0: {Index: 0, Label: "Level", Value: 99}},
			134: {0: {Index: 0, Label: "Library Version", Value: "3"}},
		},
	}}}
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "zwave_test_total", Help: "test"}))
	return httptest.NewServer(NewServer(source, registry).Router())
}

func getNodes(t *testing.T, url string) []entities.Node {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var nodes []entities.Node
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&nodes))
	return nodes
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, entities.SessionOperational, body["session"])
}

func TestNodesHidesCommandClasses(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	nodes := getNodes(t, srv.URL+"/nodes")
	require.Len(t, nodes, 1)
	assert.Contains(t, nodes[0].Classes, 38)
	assert.NotContains(t, nodes[0].Classes, 134)

	nodes = getNodes(t, srv.URL+"/nodes?all=true")
	assert.Contains(t, nodes[0].Classes, 134)
}

func TestNode(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nodes/3")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var node entities.Node
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&node))
	assert.Equal(t, "Aeotec", node.Info.Manufacturer)

	for path, status := range map[string]int{"/nodes/9": http.StatusNotFound, "/nodes/abc": http.StatusBadRequest} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
