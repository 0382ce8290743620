package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gkepool/cmd/gkepool/handlers"
)

// Plan returns the command that previews apply.
func Plan(opts *handlers.Options) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), *opts, manifestPath)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "file", "f", "", "Path to manifest (default: gkepool.yaml)")

	return cmd
}
