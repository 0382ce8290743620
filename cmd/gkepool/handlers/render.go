package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/gkepool/internal/agent"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
)

type palette struct {
	title  lipgloss.Style
	create lipgloss.Style
	update lipgloss.Style
	remove lipgloss.Style
	dim    lipgloss.Style
	failed lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain}
	}
	return palette{
		title:  lipgloss.NewStyle().Bold(true).Foreground(colorBlue),
		create: lipgloss.NewStyle().Foreground(colorGreen),
		update: lipgloss.NewStyle().Foreground(colorYellow),
		remove: lipgloss.NewStyle().Foreground(colorRed),
		dim:    lipgloss.NewStyle().Foreground(colorDim),
		failed: lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	}
}

// renderPlan lists what an apply would do.
func renderPlan(results []agent.Result, color bool) string {
	p := newPalette(color)
	var b strings.Builder

	b.WriteString(p.title.Render("Node pool plan"))
	b.WriteString("\n")

	counts := map[agent.Action]int{}
	for _, r := range results {
		counts[r.Action]++
		switch {
		case r.Err != nil:
			b.WriteString(p.failed.Render("  ! " + r.NodePool + ": " + r.Err.Error()))
		case r.Action == agent.ActionCreate:
			b.WriteString(p.create.Render("  + " + r.NodePool + " will be created"))
		case r.Action == agent.ActionDelete:
			b.WriteString(p.remove.Render("  - " + r.NodePool + " will be deleted"))
		case r.Action == agent.ActionUpdate:
			b.WriteString(p.update.Render("  ~ " + r.NodePool + " will be updated"))
			for _, c := range r.Changes {
				b.WriteString("\n")
				b.WriteString(p.dim.Render("      " + c.String()))
			}
		default:
			b.WriteString(p.dim.Render("    " + r.NodePool + " is up to date"))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n%d to create, %d to update, %d to delete\n",
		counts[agent.ActionCreate], counts[agent.ActionUpdate], counts[agent.ActionDelete]))
	return b.String()
}

// renderResults summarizes what a pass did.
func renderResults(results []agent.Result, color bool) string {
	p := newPalette(color)
	var b strings.Builder

	for _, r := range results {
		var line string
		switch {
		case r.Err != nil:
			line = p.failed.Render(fmt.Sprintf("failed    %s: %v", r.NodePool, r.Err))
		case r.Action == agent.ActionCreate:
			line = p.create.Render("created   " + r.NodePool)
		case r.Action == agent.ActionDelete:
			line = p.remove.Render("deleted   " + r.NodePool)
		case r.Action == agent.ActionUpdate:
			line = p.update.Render(fmt.Sprintf("updated   %s (%d changes)", r.NodePool, len(r.Changes)))
		default:
			line = p.dim.Render("unchanged " + r.NodePool)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
