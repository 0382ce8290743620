package property

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/gkepool/internal/util/ptr"
)

const apiNodeConfig = `{
  "machineType": "n1-standard-4",
  "diskSizeGb": 100,
  "oauthScopes": ["https://www.googleapis.com/auth/devstorage.read_only"],
  "serviceAccount": "default",
  "metadata": {"disable-legacy-endpoints": "true"},
  "imageType": "COS_CONTAINERD",
  "labels": {"team": "infra", "tier": "1"},
  "localSsdCount": 0,
  "tags": ["web", "prod"],
  "preemptible": false,
  "accelerators": [
    {"acceleratorCount": "2", "acceleratorType": "nvidia-tesla-t4"},
    {"acceleratorCount": "1", "acceleratorType": "nvidia-tesla-k80"}
  ],
  "diskType": "pd-standard",
  "minCpuPlatform": "Intel Skylake",
  "someFutureField": {"ignored": true}
}`

const declaredNodeConfig = `
machine_type: n1-standard-4
disk_size_gb: 100
oauth_scopes:
  - https://www.googleapis.com/auth/devstorage.read_only
service_account: default
metadata:
  disable-legacy-endpoints: "true"
image_type: COS_CONTAINERD
labels:
  team: infra
  tier: 1
local_ssd_count: 0
tags: [web, prod]
preemptible: false
accelerators:
  - accelerator_count: 1
    accelerator_type: nvidia-tesla-k80
  - accelerator_count: 2
    accelerator_type: nvidia-tesla-t4
disk_type: pd-standard
min_cpu_platform: Intel Skylake
`

func decodeJSON(t *testing.T, doc string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}

func decodeYAML(t *testing.T, doc string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestNodeConfig_APIAndDeclarationAreEqual(t *testing.T) {
	t.Parallel()

	fromAPI := NodeConfigFromAPI(decodeJSON(t, apiNodeConfig))
	fromDecl := NodeConfigFromDeclaration(decodeYAML(t, declaredNodeConfig))
	require.NotNil(t, fromAPI)
	require.NotNil(t, fromDecl)

	assert.True(t, fromAPI.Equal(fromDecl))
	result, ok := fromDecl.Compare(fromAPI)
	assert.True(t, ok)
	assert.Zero(t, result)

	assert.Equal(t, "n1-standard-4", *fromAPI.MachineType)
	assert.Equal(t, int64(100), *fromDecl.DiskSizeGb)
	assert.Equal(t, map[string]string{"team": "infra", "tier": "1"}, fromDecl.Labels)
}

func TestNodeConfig_AcceleratorsAreSorted(t *testing.T) {
	t.Parallel()

	cfg := NodeConfigFromAPI(decodeJSON(t, apiNodeConfig))
	require.Len(t, cfg.Accelerators, 2)
	assert.Equal(t, "nvidia-tesla-k80", *cfg.Accelerators[0].AcceleratorType)
	assert.Equal(t, "nvidia-tesla-t4", *cfg.Accelerators[1].AcceleratorType)
}

func TestNodeConfig_PartialAcceleratorsMatchAPI(t *testing.T) {
	t.Parallel()

	declared := NodeConfigFromDeclaration(map[string]any{
		"accelerators": []any{
			map[string]any{"accelerator_count": 2},
			map[string]any{"accelerator_type": "a"},
		},
	})
	fromAPI := NodeConfigFromAPI(map[string]any{
		"accelerators": []any{
			map[string]any{"acceleratorCount": "1", "acceleratorType": "a"},
			map[string]any{"acceleratorCount": "2", "acceleratorType": "x"},
		},
	})

	require.Len(t, declared.Accelerators, 2)
	assert.Nil(t, declared.Accelerators[0].AcceleratorCount, "unset count sorts first")
	assert.True(t, declared.Equal(fromAPI))
	assert.True(t, fromAPI.Equal(declared))
}

func TestNodeConfig_ScopesAndTagsIgnoreOrder(t *testing.T) {
	t.Parallel()

	declared := NodeConfigFromDeclaration(map[string]any{
		"oauth_scopes": []any{"https://www.googleapis.com/auth/logging.write", "https://www.googleapis.com/auth/compute"},
		"tags":         []any{"web", "prod"},
	})
	fromAPI := NodeConfigFromAPI(map[string]any{
		"oauthScopes": []any{"https://www.googleapis.com/auth/compute", "https://www.googleapis.com/auth/logging.write"},
		"tags":        []any{"prod", "web"},
	})

	assert.True(t, declared.Equal(fromAPI))
	assert.Equal(t, []string{"prod", "web"}, declared.Tags)
	assert.Equal(t, fromAPI.Serialize(), declared.Serialize())
}

func TestNodeConfig_SerializeOmitsExactlyUnsetFields(t *testing.T) {
	t.Parallel()

	cfg := NodeConfigFromDeclaration(map[string]any{
		"machine_type": "e2-medium",
		"disk_size_gb": nil,
		"tags":         []any{},
		"labels":       map[string]any{"env": "dev"},
		"unknown":      "ignored",
	})
	require.NotNil(t, cfg)

	got := cfg.Serialize()
	assert.Equal(t, map[string]any{
		"machineType": "e2-medium",
		"tags":        []string{},
		"labels":      map[string]string{"env": "dev"},
	}, got)

	roundTrip := NodeConfigFromAPI(got)
	assert.True(t, roundTrip.Equal(cfg))
	assert.Equal(t, got, roundTrip.Serialize())
}

func TestNodeConfig_RoundTripThroughJSON(t *testing.T) {
	t.Parallel()

	cfg := NodeConfigFromDeclaration(decodeYAML(t, declaredNodeConfig))
	encoded, err := json.Marshal(cfg.Serialize())
	require.NoError(t, err)

	decoded := NodeConfigFromAPI(decodeJSON(t, string(encoded)))
	assert.True(t, decoded.Equal(cfg))
	assert.Equal(t, cfg.String(), decoded.String())
}

func TestNodeConfig_CompareOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b *NodeConfig
		want int
	}{
		{
			name: "machine type decides before disk size",
			a:    &NodeConfig{MachineType: ptr.String("a"), DiskSizeGb: ptr.Int64(500)},
			b:    &NodeConfig{MachineType: ptr.String("b"), DiskSizeGb: ptr.Int64(10)},
			want: -1,
		},
		{
			name: "unset machine type falls through to disk size",
			a:    &NodeConfig{DiskSizeGb: ptr.Int64(500)},
			b:    &NodeConfig{MachineType: ptr.String("b"), DiskSizeGb: ptr.Int64(10)},
			want: 1,
		},
		{
			name: "labels compared by keys then values",
			a:    &NodeConfig{Labels: map[string]string{"a": "2"}},
			b:    &NodeConfig{Labels: map[string]string{"a": "1"}},
			want: 1,
		},
		{
			name: "accelerator lists compared element-wise",
			a: &NodeConfig{Accelerators: []*AcceleratorConfig{
				{AcceleratorCount: ptr.Int64(1)},
			}},
			b: &NodeConfig{Accelerators: []*AcceleratorConfig{
				{AcceleratorCount: ptr.Int64(1)},
				{AcceleratorCount: ptr.Int64(2)},
			}},
			want: -1,
		},
		{
			name: "nothing mutually set",
			a:    &NodeConfig{MachineType: ptr.String("a")},
			b:    &NodeConfig{ImageType: ptr.String("COS")},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.a.Compare(tt.b)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == 0, tt.a.Equal(tt.b))
		})
	}
}

func TestNodeConfig_Describe(t *testing.T) {
	t.Parallel()

	cfg := &NodeConfig{
		MachineType: ptr.String("e2-small"),
		Preemptible: ptr.Bool(true),
		Accelerators: []*AcceleratorConfig{
			{AcceleratorCount: ptr.Int64(1), AcceleratorType: ptr.String("nvidia-l4")},
		},
	}
	assert.Equal(t,
		"machine_type: e2-small, preemptible: true, accelerators: [{accelerator_count: 1, accelerator_type: nvidia-l4}]",
		cfg.String())
}
