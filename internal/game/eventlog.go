package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EventLogSize is how many entries the log retains.
const EventLogSize = 5

const (
	eventPanelWidth = 360
	eventLineHeight = 16
)

// EventKind tags where a log line came from.
type EventKind int

const (
	EventInfo EventKind = iota
	EventDialogue
	EventAction
	EventWorld
)

func (k EventKind) dot() color.RGBA {
	switch k {
	case EventDialogue:
		return color.RGBA{R: 120, G: 200, B: 230, A: 255}
	case EventAction:
		return color.RGBA{R: 150, G: 220, B: 120, A: 255}
	case EventWorld:
		return color.RGBA{R: 240, G: 190, B: 90, A: 255}
	}
	return color.RGBA{R: 180, G: 180, B: 180, A: 255}
}

// EventEntry is a single line in the event log.
type EventEntry struct {
	Frame   int
	Kind    EventKind
	Message string
}

// EventLog is a fixed-size ring buffer of recent events.
type EventLog struct {
	entries [EventLogSize]EventEntry
	head    int
	count   int
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add appends an entry, evicting the oldest once full.
func (l *EventLog) Add(frame int, kind EventKind, msg string) {
	l.entries[l.head] = EventEntry{Frame: frame, Kind: kind, Message: msg}
	l.head = (l.head + 1) % EventLogSize
	if l.count < EventLogSize {
		l.count++
	}
}

// Recent returns entries newest first.
func (l *EventLog) Recent() []EventEntry {
	out := make([]EventEntry, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.head - 1 - i + EventLogSize) % EventLogSize
		out[i] = l.entries[idx]
	}
	return out
}

// Len returns the number of retained entries.
func (l *EventLog) Len() int { return l.count }

// Clear drops every entry.
func (l *EventLog) Clear() {
	*l = EventLog{}
}

// Draw renders the log in a panel anchored to the bottom-left corner.
func (l *EventLog) Draw(screen *ebiten.Image, x, bottom int) {
	if l.count == 0 {
		return
	}
	h := l.count*eventLineHeight + 22
	y := bottom - h
	vector.FillRect(screen, float32(x), float32(y), eventPanelWidth, float32(h), color.RGBA{R: 10, G: 12, B: 16, A: 210}, false)
	vector.StrokeRect(screen, float32(x), float32(y), eventPanelWidth, float32(h), 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", x+8, y+2)

	ly := y + 18
	for i, e := range l.Recent() {
		if i == 0 {
			vector.FillRect(screen, float32(x+2), float32(ly), eventPanelWidth-4, eventLineHeight, color.RGBA{R: 30, G: 36, B: 48, A: 180}, false)
		}
		vector.FillRect(screen, float32(x+6), float32(ly+5), 4, 6, e.Kind.dot(), false)
		ebitenutil.DebugPrintAt(screen, truncate(e.Message, 54), x+14, ly)
		ly += eventLineHeight
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
