package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// DebugReport renders a plain-text snapshot of the simulation for bug
// reports.
func (w *World) DebugReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- CodexRPG debug report ---\n")
	fmt.Fprintf(&b, "frame=%d active=%v debug_paths=%v\n", w.Frame, w.Session.Active, w.DebugPaths)
	if w.Session.Info != nil {
		p := w.Session.Info
		fmt.Fprintf(&b, "player=%q class=%s hp=%d/%d gold=%d\n", p.Name, p.Class, p.HP, p.MaxHP, p.Gold)
	}
	if w.Session.CreateError != "" {
		fmt.Fprintf(&b, "create_error=%q\n", w.Session.CreateError)
	}

	if w.Grid == nil {
		b.WriteString("world: not loaded\n")
		return b.String()
	}
	fmt.Fprintf(&b, "world=%dx%d passable=%d\n", w.Grid.Cols, w.Grid.Rows, w.Grid.PassableCount())
	fmt.Fprintf(&b, "camera=(%.1f,%.1f) particles=%d\n\n", w.Camera.X, w.Camera.Y, w.Particles.Len())

	if p := w.Player; p != nil {
		fmt.Fprintf(&b, "== player ==\npos=(%.2f,%.2f) target=%s\n\n", p.Pos.X, p.Pos.Y, targetLabel(p.Target))
	}

	fmt.Fprintf(&b, "== npcs (%d) ==\n", len(w.NPCs))
	for _, n := range w.NPCs {
		fmt.Fprintf(&b, "%-12s %-8s pos=(%.2f,%.2f) anchor=(%.0f,%.0f) path=%d next=%d\n",
			truncate(n.Name, 12), n.State(), n.Pos.X, n.Pos.Y, n.Anchor.X, n.Anchor.Y,
			len(n.RemainingPath()), n.NextDecision-w.Frame)
	}

	if events := w.Events.Recent(); len(events) > 0 {
		b.WriteString("\n== events ==\n")
		for _, e := range events {
			fmt.Fprintf(&b, "%6d %s\n", e.Frame, e.Message)
		}
	}
	return b.String()
}

func targetLabel(t *Tile) string {
	if t == nil {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// CopyDebugReport places the report on the system clipboard.
func (w *World) CopyDebugReport() error {
	if err := clipboard.WriteAll(w.DebugReport()); err != nil {
		return fmt.Errorf("copy debug report: %w", err)
	}
	return nil
}
