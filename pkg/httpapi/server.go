package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/zwave"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NodeSource is the read side of the bridge session.
type NodeSource interface {
	Nodes() []entities.Node
	Node(nodeID int) (entities.Node, bool)
	State() string
}

type Server struct {
	nodes    NodeSource
	gatherer prometheus.Gatherer
}

func NewServer(nodes NodeSource, gatherer prometheus.Gatherer) *Server {
	return &Server{nodes: nodes, gatherer: gatherer}
}

// Router serves /health, /nodes, /nodes/{id} and /metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/nodes", s.handleNodes)
	r.Get("/nodes/{id}", s.handleNode)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "session": s.nodes.State()})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"
	nodes := s.nodes.Nodes()
	for i := range nodes {
		nodes[i] = visible(nodes[i], all)
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid node id"})
		return
	}
	node, ok := s.nodes.Node(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "node not found"})
		return
	}
	writeJSON(w, http.StatusOK, visible(node, r.URL.Query().Get("all") == "true"))
}

// visible drops the command classes user interfaces hide unless all is set.
func visible(node entities.Node, all bool) entities.Node {
	if all {
		return node
	}
	for classID := range node.Classes {
		if !zwave.ComclassShowable(classID) {
			delete(node.Classes, classID)
		}
	}
	return node
}
