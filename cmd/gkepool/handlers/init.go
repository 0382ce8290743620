package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/gkepool/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	runWizard = config.RunWizard

	saveManifest = config.SaveManifest
)

// Init runs the manifest wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if outputPath == "" {
		outputPath = config.DefaultManifestFilename
	}
	if fileExists(outputPath) {
		fmt.Fprintf(stdout, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	m := result.ToManifest()
	if err := m.Validate(); err != nil {
		return err
	}
	if err := saveManifest(m, outputPath); err != nil {
		return err
	}

	np := m.NodePools[0]
	fmt.Fprintf(stdout, "Manifest saved to %s\n\n", outputPath)
	fmt.Fprintf(stdout, "  Node pool: %s\n", np.Key())
	fmt.Fprintf(stdout, "  Machine:   %v\n", np.Config["machine_type"])
	fmt.Fprintf(stdout, "\nNext: gkepool plan -f %s\n", outputPath)
	return nil
}
