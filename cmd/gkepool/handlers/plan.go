package handlers

import (
	"context"
	"fmt"
)

// Plan prints the changes apply would make, without making them.
func Plan(ctx context.Context, opts Options, manifestPath string) error {
	run, err := loadRun(ctx, opts, manifestPath)
	if err != nil {
		return err
	}

	results, err := newAgent(run.client, run.timeouts).Plan(ctx, specsFrom(run.manifest))
	fmt.Fprint(stdout, renderPlan(results, isTerminal()))
	return err
}
