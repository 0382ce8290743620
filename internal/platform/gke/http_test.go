package gke

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/imamik/gkepool/internal/config"
)

const (
	testPoolPath = "/v1/projects/p/locations/us-central1/clusters/c/nodePools/n"
	testOpPath   = "/v1/projects/p/locations/us-central1/operations/op1"
)

var testIdentity = Identity{Project: "p", Location: "us-central1", Cluster: "c", Name: "n"}

// testServer creates an httptest server that can be used to mock GKE API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux

	mu    sync.Mutex
	calls map[string]int
}

// newTestServer creates a new test server that is closed when the test ends.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{mux: http.NewServeMux(), calls: map[string]int{}}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.calls[r.Method+" "+r.URL.Path]++
		ts.mu.Unlock()
		ts.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

// handleFunc registers a handler for a specific pattern.
func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// count returns how many requests hit method and path.
func (ts *testServer) count(method, path string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.calls[method+" "+path]
}

func (ts *testServer) total() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	n := 0
	for _, c := range ts.calls {
		n += c
	}
	return n
}

func (ts *testServer) baseURL() string {
	return ts.server.URL + "/v1/"
}

// client returns a Client configured to use the test server.
func (ts *testServer) client(opts ...ClientOption) *Client {
	return NewClient(append([]ClientOption{
		WithBaseURL(ts.baseURL()),
		WithTimeouts(testTimeouts()),
	}, opts...)...)
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		PollInterval: time.Millisecond,
		Operation:    5 * time.Second,
		Request:      5 * time.Second,
	}
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_PostSendsJSONWithCredentials(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.handleFunc("POST /v1/projects/p/locations/us-central1/clusters/c/nodePools", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "gkepool-test", r.Header.Get("User-Agent"))

		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"nodePool":{"name":"n","initialNodeCount":3}}`, string(data))
		jsonResponse(w, http.StatusOK, map[string]any{"name": "op1", "status": "DONE"})
	})

	c := ts.client(WithCredentials(StaticToken("test-token")), WithUserAgent("gkepool-test"))
	link, err := CollectionLink(c.BaseURL(), testIdentity)
	require.NoError(t, err)

	resp, err := c.Post(context.Background(), testIdentity, link, map[string]any{
		"nodePool": map[string]any{"name": "n", "initialNodeCount": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Method)
	assert.Equal(t, link, resp.URL)
}

func TestClient_AnonymousSendsNoAuthorization(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.handleFunc("DELETE "+testPoolPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})

	c := ts.client()
	resp, err := c.Delete(context.Background(), testIdentity, ts.server.URL+testPoolPath)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.handleFunc("GET /v1/found", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"name": "n"})
	})
	ts.handleFunc("GET /v1/missing", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusNotFound, map[string]any{"error": map[string]any{"message": "not found"}})
	})
	ts.handleFunc("GET /v1/broken", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusInternalServerError, map[string]any{"error": map[string]any{"message": "backend unavailable"}})
	})

	c := ts.client()
	ctx := context.Background()

	obj, err := c.Fetch(ctx, testIdentity, ts.baseURL()+"found")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "n"}, obj)

	obj, err = c.Fetch(ctx, testIdentity, ts.baseURL()+"missing")
	require.NoError(t, err)
	assert.Nil(t, obj)

	_, err = c.Fetch(ctx, testIdentity, ts.baseURL()+"broken")
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestClient_NetworkFailureIsNotTransportError(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	c := ts.client()
	ts.server.Close()

	_, err := c.Get(context.Background(), testIdentity, ts.baseURL()+"anything")
	require.Error(t, err)
	assert.False(t, IsTransportError(err))
}

func TestClient_CredentialFailureStopsBeforeRequest(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	c := ts.client(WithCredentials(CredentialSupplierFunc(func(context.Context, Identity) (oauth2.TokenSource, error) {
		return nil, assert.AnError
	})))

	_, err := c.Get(context.Background(), testIdentity, ts.baseURL()+"anything")
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, ts.total())
}
