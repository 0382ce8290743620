package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gkepool/cmd/gkepool/handlers"
)

// Destroy returns the command that deletes every declared node pool.
func Destroy(opts *handlers.Options) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete every node pool in the manifest",
		Long: `Delete every node pool declared in the manifest, whatever its ensure
value. Pools that are already gone are left alone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), *opts, manifestPath)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "file", "f", "", "Path to manifest (default: gkepool.yaml)")

	return cmd
}
