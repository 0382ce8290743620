package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	t.Parallel()

	cmd := Root()
	require.NotNil(t, cmd)
	assert.Equal(t, "gkepool", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"init", "apply", "plan", "destroy", "get", "cluster", "list", "reports", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRoot_PersistentFlags(t *testing.T) {
	t.Parallel()

	flags := Root().PersistentFlags()
	for _, name := range []string{"verbose", "endpoint", "credentials-file", "anonymous"} {
		assert.NotNil(t, flags.Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
}

func TestManifestFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command   string
		flag      string
		shorthand string
	}{
		{command: "init", flag: "output", shorthand: "o"},
		{command: "apply", flag: "file", shorthand: "f"},
		{command: "plan", flag: "file", shorthand: "f"},
		{command: "destroy", flag: "file", shorthand: "f"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()
			cmd := subcommand(t, tt.command)
			flag := cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, "", flag.DefValue)
			assert.NotNil(t, cmd.RunE)
		})
	}
}

func TestInit_HasNoFileFlag(t *testing.T) {
	t.Parallel()

	assert.Nil(t, subcommand(t, "init").Flags().Lookup("file"))
}

func TestApply_WatchFlags(t *testing.T) {
	t.Parallel()

	cmd := subcommand(t, "apply")
	assert.Equal(t, "0s", cmd.Flags().Lookup("watch").DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("metrics-bind-address"))
}

func TestGet_Args(t *testing.T) {
	t.Parallel()

	cmd := subcommand(t, "get")
	assert.Equal(t, "text", cmd.Flags().Lookup("output").DefValue)
	require.Error(t, cmd.Args(cmd, []string{"p", "l", "c"}))
	require.NoError(t, cmd.Args(cmd, []string{"p", "l", "c", "n"}))

	cluster := subcommand(t, "cluster")
	require.Error(t, cluster.Args(cluster, []string{"p", "l"}))
	require.NoError(t, cluster.Args(cluster, []string{"p", "l", "c"}))
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	var out bytes.Buffer
	cmd := Version()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "gkepool 1.2.3")
	assert.Contains(t, out.String(), "commit: abc123")
	assert.Contains(t, out.String(), "built:  2026-01-01")
}

func TestCompletion(t *testing.T) {
	t.Parallel()

	root := Root()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "gkepool")
}

func subcommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := Root().Find([]string{name})
	require.NoError(t, err)
	require.Equal(t, name, cmd.Name())
	return cmd
}
