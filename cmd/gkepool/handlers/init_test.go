package handlers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/gkepool/internal/config"
)

func stubWizard(t *testing.T, result *config.WizardResult, err error) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	origWizard, origStdout := runWizard, stdout
	t.Cleanup(func() { runWizard, stdout = origWizard, origStdout })
	runWizard = func(context.Context) (*config.WizardResult, error) { return result, err }
	stdout = &out
	return &out
}

func TestInit(t *testing.T) {
	out := stubWizard(t, &config.WizardResult{
		Project: "p", Location: "us-central1", Cluster: "c", Name: "workers",
		MachineType: "e2-standard-4", NodeCount: 1,
	}, nil)
	path := filepath.Join(t.TempDir(), "gkepool.yaml")

	require.NoError(t, Init(context.Background(), path))

	m, err := config.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "workers", m.NodePools[0].Name)
	assert.Contains(t, out.String(), "p/us-central1/c/workers")
	assert.NotContains(t, out.String(), "Warning")

	require.NoError(t, Init(context.Background(), path))
	assert.Contains(t, out.String(), "already exists")
}

func TestInitWizardCanceled(t *testing.T) {
	stubWizard(t, nil, errors.New("wizard canceled: user aborted"))

	err := Init(context.Background(), filepath.Join(t.TempDir(), "gkepool.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user aborted")
}

func TestInitRejectsInvalidResult(t *testing.T) {
	stubWizard(t, &config.WizardResult{Name: "workers", NodeCount: 1}, nil)
	path := filepath.Join(t.TempDir(), "gkepool.yaml")

	require.Error(t, Init(context.Background(), path))
	assert.False(t, fileExists(path))
}
