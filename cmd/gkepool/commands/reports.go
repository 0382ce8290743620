package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gkepool/cmd/gkepool/handlers"
)

// Reports returns the command that reads published pass reports.
func Reports(opts *handlers.Options) *cobra.Command {
	var manifestPath, output string

	cmd := &cobra.Command{
		Use:   "reports [KEY]",
		Short: "List published pass reports, or show one",
		Long: `Read the pass reports apply and destroy publish to the bucket named in
the manifest's reports section.

Without KEY, every stored report key is listed, oldest first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			}
			return handlers.Reports(cmd.Context(), *opts, manifestPath, key, output)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "file", "f", "", "Path to manifest (default: gkepool.yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputText, "Output format: text, json or yaml")

	return cmd
}
