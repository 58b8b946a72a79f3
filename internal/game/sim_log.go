package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless test simulation.
type SimLogEntry struct {
	Tick     int
	Entity   string  // "player", an NPC id, or "--" for world events
	Category string  // move, npc, input, action, world, session
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] player   move      arrived          (3,4)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-8s %-9s %-16s %s",
		e.Tick, truncate(e.Entity, 8), e.Category, e.Key, e.Value)
}

// SimLog is the unbounded, machine-readable record of a headless run. The
// on-screen EventLog only keeps the last few lines for the player.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates an empty log. Per-tick position samples are kept only
// when verbose is set.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add appends one entry.
func (sl *SimLog) Add(tick int, entity, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{tick, entity, category, key, value, numVal})
}

// AddVerbose is Add for high-volume samples; dropped unless verbose.
func (sl *SimLog) AddVerbose(tick int, entity, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, entity, category, key, value, numVal)
	}
}

// Entries returns the entries in recording order.
func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

// Select returns the entries for which keep reports true.
func (sl *SimLog) Select(keep func(SimLogEntry) bool) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// matches treats an empty category or key as a wildcard.
func (e SimLogEntry) matches(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// Filter selects by category and key; empty strings match anything.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.Select(func(e SimLogEntry) bool { return e.matches(category, key) })
}

// FilterEntity selects the entries of one player, NPC id or "--".
func (sl *SimLog) FilterEntity(entity string) []SimLogEntry {
	return sl.Select(func(e SimLogEntry) bool { return e.Entity == entity })
}

// FilterTickRange selects entries with from <= Tick <= to.
func (sl *SimLog) FilterTickRange(from, to int) []SimLogEntry {
	return sl.Select(func(e SimLogEntry) bool { return e.Tick >= from && e.Tick <= to })
}

// CountCategory counts entries matching category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.matches(category, key) {
			n++
		}
	}
	return n
}

// LastOf returns the newest entry matching category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].matches(category, key) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether some entry matches category and key and has
// valueSubstr in its value.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if e.matches(category, key) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders every entry, one per line, for t.Log.
func (sl *SimLog) Format() string { return formatEntries(sl.entries) }

// FormatRange renders the entries of FilterTickRange.
func (sl *SimLog) FormatRange(from, to int) string {
	return formatEntries(sl.FilterTickRange(from, to))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintln(&sb, e.String())
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the world state.
func (sl *SimLog) Summary(w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", w.Frame)

	pathing := 0
	for _, n := range w.NPCs {
		if n.State() == NPCPathing {
			pathing++
		}
	}
	fmt.Fprintf(&sb, "NPCs: %d  pathing=%d  idle=%d\n", len(w.NPCs), pathing, len(w.NPCs)-pathing)
	fmt.Fprintf(&sb, "Wander starts: %d  arrivals: %d\n",
		sl.CountCategory("npc", NPCPathing.String()), sl.CountCategory("npc", NPCIdle.String()))

	if p := w.Player; p != nil {
		fmt.Fprintf(&sb, "Player: (%.2f,%.2f) target=%s arrivals=%d\n",
			p.Pos.X, p.Pos.Y, targetLabel(p.Target), sl.CountCategory("move", "arrived"))
	} else {
		sb.WriteString("Player: none\n")
	}
	fmt.Fprintf(&sb, "Particles: %d\n", w.Particles.Len())
	return sb.String()
}
