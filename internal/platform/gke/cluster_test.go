package gke

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCluster(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.handleFunc("GET /v1/projects/p/locations/us-central1/clusters/c", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"name":                 "c",
			"location":             "us-central1",
			"status":               "RUNNING",
			"currentMasterVersion": "1.30.5-gke.1014001",
			"currentNodeCount":     6,
			"addonsConfig": map[string]any{
				"httpLoadBalancing":        map[string]any{"disabled": true},
				"horizontalPodAutoscaling": map[string]any{},
			},
			"nodePools": []any{
				map[string]any{"name": "default-pool"},
				map[string]any{"name": "n"},
			},
		})
	})

	cluster, err := ts.client().GetCluster(context.Background(), testIdentity)
	require.NoError(t, err)
	require.NotNil(t, cluster)

	assert.Equal(t, "c", cluster.Name)
	assert.Equal(t, "RUNNING", cluster.Status)
	assert.Equal(t, "1.30.5-gke.1014001", cluster.CurrentMasterVersion)
	assert.Equal(t, int64(6), *cluster.CurrentNodeCount)
	assert.Equal(t, []string{"default-pool", "n"}, cluster.NodePools)
	require.NotNil(t, cluster.AddonsConfig)
	assert.Equal(t, "http_load_balancing: {disabled: true}, horizontal_pod_autoscaling: {}", cluster.AddonsConfig.String())
}

func TestGetCluster_NotFound(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	cluster, err := ts.client().GetCluster(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Nil(t, cluster)
}

func TestGetCluster_MissingIdentity(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	_, err := ts.client().GetCluster(context.Background(), Identity{Project: "p"})
	assert.True(t, IsConfigError(err))
	assert.Zero(t, ts.total())
}
