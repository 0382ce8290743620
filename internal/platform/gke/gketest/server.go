// Package gketest provides an in-memory GKE node pool API for tests.
package gketest

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is a request the server received.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server serves node pools, clusters and operations from memory.
//
// Mutations return a PENDING operation that reports each status of Steps on
// successive polls and is applied to the stored pools once it reaches DONE.
type Server struct {
	*httptest.Server

	// Steps are the statuses an operation reports on successive polls.
	Steps []string
	// FailWith, when set, makes every operation end in DONE with these
	// embedded error messages and without being applied.
	FailWith []string

	mu         sync.Mutex
	pools      map[string]map[string]any
	clusters   map[string]map[string]any
	operations map[string]*operation
	requests   []Request
	nextOp     int
}

type operation struct {
	name   string
	opType string
	target string
	polls  int
	apply  func()
}

// TB is the part of testing.TB the server needs. GinkgoT satisfies it too.
type TB interface {
	Helper()
	Cleanup(func())
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t TB) *Server {
	t.Helper()
	s := &Server{
		Steps:      []string{"RUNNING", "DONE"},
		pools:      map[string]map[string]any{},
		clusters:   map[string]map[string]any{},
		operations: map[string]*operation{},
	}

	mux := http.NewServeMux()
	const cluster = "/v1/projects/{project}/locations/{location}/clusters/{cluster}"
	mux.HandleFunc("GET "+cluster, s.getCluster)
	mux.HandleFunc("POST "+cluster+"/nodePools", s.createPool)
	mux.HandleFunc("GET "+cluster+"/nodePools/{name}", s.getPool)
	mux.HandleFunc("PUT "+cluster+"/nodePools/{name}", s.updatePool)
	mux.HandleFunc("DELETE "+cluster+"/nodePools/{name}", s.deletePool)
	mux.HandleFunc("GET /v1/projects/{project}/locations/{location}/operations/{op}", s.getOperation)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req.Body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		r = r.WithContext(withBody(r.Context(), req.Body))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the endpoint to hand to the client.
func (s *Server) BaseURL() string {
	return s.URL + "/v1/"
}

// PoolPath is the request path of a node pool.
func PoolPath(project, location, cluster, name string) string {
	return fmt.Sprintf("/v1/projects/%s/locations/%s/clusters/%s/nodePools/%s", project, location, cluster, name)
}

// ClusterPath is the request path of a cluster.
func ClusterPath(project, location, cluster string) string {
	return fmt.Sprintf("/v1/projects/%s/locations/%s/clusters/%s", project, location, cluster)
}

// AddCluster stores a cluster payload.
func (s *Server) AddCluster(project, location string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[ClusterPath(project, location, fmt.Sprint(payload["name"]))] = payload
}

// AddPool stores a node pool payload as if it already existed.
func (s *Server) AddPool(project, location, cluster string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := PoolPath(project, location, cluster, fmt.Sprint(payload["name"]))
	s.pools[path] = s.stored(path, payload)
}

// Pool returns the stored payload of a node pool, or nil.
func (s *Server) Pool(project, location, cluster, name string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pools[PoolPath(project, location, cluster, name)]; ok {
		return maps.Clone(p)
	}
	return nil
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests hit method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) stored(path string, payload map[string]any) map[string]any {
	out := maps.Clone(payload)
	out["selfLink"] = s.URL + path
	if _, ok := out["status"]; !ok {
		out["status"] = "RUNNING"
	}
	return out
}

func (s *Server) getCluster(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload, ok := s.clusters[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) getPool(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload, ok := s.pools[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) createPool(w http.ResponseWriter, r *http.Request) {
	pool, ok := bodyFrom(r.Context())["nodePool"].(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing nodePool")
		return
	}
	path := r.URL.Path + "/" + fmt.Sprint(pool["name"])

	s.mu.Lock()
	_, exists := s.pools[path]
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusConflict, "Already exists: "+path)
		return
	}

	s.startOperation(w, r, "CREATE_NODE_POOL", path, func() {
		s.pools[path] = s.stored(path, pool)
	})
}

func (s *Server) updatePool(w http.ResponseWriter, r *http.Request) {
	pool, ok := bodyFrom(r.Context())["nodePool"].(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing nodePool")
		return
	}
	path := r.URL.Path

	s.mu.Lock()
	_, exists := s.pools[path]
	s.mu.Unlock()
	if !exists {
		notFound(w, r)
		return
	}

	s.startOperation(w, r, "UPDATE_NODE_POOL", path, func() {
		merged := s.pools[path]
		for k, v := range pool {
			merged[k] = v
		}
	})
}

func (s *Server) deletePool(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	s.mu.Lock()
	_, exists := s.pools[path]
	s.mu.Unlock()
	if !exists {
		notFound(w, r)
		return
	}

	s.startOperation(w, r, "DELETE_NODE_POOL", path, func() {
		delete(s.pools, path)
	})
}

func (s *Server) startOperation(w http.ResponseWriter, r *http.Request, opType, target string, apply func()) {
	s.mu.Lock()
	s.nextOp++
	op := &operation{
		name:   fmt.Sprintf("operation-%d", s.nextOp),
		opType: opType,
		target: s.URL + target,
		apply:  apply,
	}
	s.operations[op.name] = op
	payload := s.operationPayload(r, op, "PENDING")
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) getOperation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, ok := s.operations[r.PathValue("op")]
	if !ok {
		notFound(w, r)
		return
	}

	status := "DONE"
	if len(s.Steps) > 0 {
		status = s.Steps[min(op.polls, len(s.Steps)-1)]
	}
	op.polls++
	if status == "DONE" && op.apply != nil {
		if len(s.FailWith) == 0 {
			op.apply()
		}
		op.apply = nil
	}

	writeJSON(w, http.StatusOK, s.operationPayload(r, op, status))
}

func (s *Server) operationPayload(r *http.Request, op *operation, status string) map[string]any {
	payload := map[string]any{
		"name":          op.name,
		"operationType": op.opType,
		"status":        status,
		"targetLink":    op.target,
		"selfLink": fmt.Sprintf("%s/v1/projects/%s/locations/%s/operations/%s",
			s.URL, r.PathValue("project"), r.PathValue("location"), op.name),
	}
	if status == "DONE" && len(s.FailWith) > 0 {
		errs := make([]any, 0, len(s.FailWith))
		for _, msg := range s.FailWith {
			errs = append(errs, map[string]any{"message": msg})
		}
		payload["error"] = map[string]any{"errors": errs}
	}
	return payload
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found: "+r.URL.Path)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"code": status, "message": message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
