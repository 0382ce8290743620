package handlers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Reports lists the published pass reports, or prints the one under key.
func Reports(ctx context.Context, opts Options, manifestPath, key, output string) error {
	run, err := loadRun(ctx, opts, manifestPath)
	if err != nil {
		return err
	}
	if run.reports == nil {
		return fmt.Errorf("%s has no reports section", run.path)
	}

	if key == "" {
		keys, err := run.reports.List(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(stdout, k)
		}
		return nil
	}

	r, err := run.reports.Get(ctx, key)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("report %s not found", key)
	}
	if output != OutputText {
		return printStructured(r, output)
	}

	fmt.Fprintf(stdout, "%s pass %s, %s to %s, %d failed\n\n",
		r.Pass, r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.FinishedAt.Format("15:04:05"), r.Failed)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NODE POOL", "ACTION", "DURATION", "RESULT")
	for _, e := range r.Entries {
		result := "ok"
		if e.Error != "" {
			result = e.Error
		}
		t.Row(e.NodePool, e.Action, fmt.Sprintf("%.1fs", e.DurationSeconds), result)
	}
	fmt.Fprintln(stdout, t.Render())
	return nil
}
