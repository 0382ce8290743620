package handlers

import (
	"context"
	"fmt"
)

// Destroy deletes every node pool declared in the manifest.
func Destroy(ctx context.Context, opts Options, manifestPath string) error {
	run, err := loadRun(ctx, opts, manifestPath)
	if err != nil {
		return err
	}

	results, err := newAgent(run.client, run.timeouts, run.agentOptions()...).Destroy(ctx, specsFrom(run.manifest))
	fmt.Fprint(stdout, renderResults(results, isTerminal()))
	return err
}
