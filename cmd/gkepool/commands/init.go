package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gkepool/cmd/gkepool/handlers"
)

// Init returns the command that writes a starter manifest.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a manifest interactively",
		Long: `Ask a few questions about one node pool and write a manifest for it.

Edit the result to add further node pools, then run 'gkepool plan'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Where to write the manifest (default: gkepool.yaml)")

	return cmd
}
