package game

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HUDTab selects the panel shown in the top-right corner.
type HUDTab int

const (
	TabStats HUDTab = iota
	TabNPCs
	TabQuests
	TabReputation
	TabHomestead
	hudTabCount
)

var hudTabNames = [hudTabCount]string{"Stats", "NPCs", "Quests", "Reputation", "Homestead"}

func (t HUDTab) String() string { return hudTabNames[t] }

// Next cycles to the following tab.
func (t HUDTab) Next() HUDTab { return (t + 1) % hudTabCount }

const (
	hudPanelWidth = 300
	hudFontSize   = 14
	hudLineHeight = 18
	hudPad        = 8
)

var (
	hudBackground = color.RGBA{R: 12, G: 14, B: 20, A: 220}
	hudFrame      = color.RGBA{R: 70, G: 80, B: 100, A: 255}
	hudText       = color.RGBA{R: 230, G: 232, B: 238, A: 255}
	hudDim        = color.RGBA{R: 150, G: 156, B: 170, A: 255}
	hudAlert      = color.RGBA{R: 150, G: 30, B: 30, A: 235}
)

var factionCaser = cases.Upper(language.English)

// FactionLabel formats a reputation key for display.
func FactionLabel(key string) string {
	return factionCaser.String(strings.ReplaceAll(key, "_", " "))
}

// HUD draws the screen-space panels mirroring service state.
type HUD struct {
	Tab  HUDTab
	face *text.GoTextFace
}

// NewHUD loads the HUD font.
func NewHUD() (*HUD, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	return &HUD{face: &text.GoTextFace{Source: src, Size: hudFontSize}}, nil
}

// Lines returns the text of the active tab.
func (h *HUD) Lines(s *Session, npcs []*NPC) []string {
	switch h.Tab {
	case TabNPCs:
		return npcLines(npcs)
	case TabQuests:
		return questLines(s)
	case TabReputation:
		return reputationLines(s)
	case TabHomestead:
		return homesteadLines(s)
	}
	return statLines(s)
}

func statLines(s *Session) []string {
	if s.Info == nil {
		return creationLines(s)
	}
	p := s.Info
	lines := []string{
		fmt.Sprintf("%s (%s)", p.Name, p.Class),
		fmt.Sprintf("HP %d/%d  DMG %d  DEF %d", p.HP, p.MaxHP, p.Damage, p.Defense),
		fmt.Sprintf("Gold %d  Items %d", p.Gold, p.InventorySize),
		fmt.Sprintf("Quests %d  Events %d", p.ActiveQuests, p.ActiveEvents),
	}
	if len(p.Skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(p.Skills, ", "))
	}
	return lines
}

// creationLines describes the pending character and its chosen class.
func creationLines(s *Session) []string {
	lines := []string{"Creating " + s.Name + "..."}
	if len(s.Classes) == 0 {
		return lines
	}
	ids := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		ids[i] = c.ID
		if !strings.EqualFold(c.ID, s.Class) {
			continue
		}
		name := c.Name
		if name == "" {
			name = c.ID
		}
		lines = append(lines,
			fmt.Sprintf("%s: HP %d  DMG %d  DEF %d", name, c.HP, c.Damage, c.Defense))
		if c.Description != "" {
			lines = append(lines, c.Description)
		}
		if len(c.Skills) > 0 {
			lines = append(lines, "Skills: "+strings.Join(c.Skills, ", "))
		}
	}
	return append(lines, "Classes: "+strings.Join(ids, ", "))
}

func npcLines(npcs []*NPC) []string {
	if len(npcs) == 0 {
		return []string{"No one around."}
	}
	lines := make([]string, 0, len(npcs))
	for _, n := range npcs {
		lines = append(lines, fmt.Sprintf("%s, %s [%s]", n.Name, n.Role, n.State()))
	}
	return lines
}

func questLines(s *Session) []string {
	if len(s.Quests) == 0 {
		return []string{"No quests available."}
	}
	lines := make([]string, 0, len(s.Quests))
	for _, q := range s.Quests {
		lines = append(lines, fmt.Sprintf("%s (%d gold)", q.Title, q.Reward))
	}
	return lines
}

func reputationLines(s *Session) []string {
	if len(s.Reputation) == 0 {
		return []string{"No standing yet."}
	}
	keys := make([]string, 0, len(s.Reputation))
	for k := range s.Reputation {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		st := s.Reputation[k]
		if st.Value != nil {
			lines = append(lines, fmt.Sprintf("%s: %s (%d)", FactionLabel(k), st.Status, *st.Value))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", FactionLabel(k), st.Status))
		}
	}
	return lines
}

func homesteadLines(s *Session) []string {
	h := s.Homestead
	if h == nil && s.Info != nil {
		h = s.Info.CurrentHome
	}
	if h == nil {
		return []string{"No homestead."}
	}
	return []string{
		fmt.Sprintf("%s (%s) L%d", h.Name, h.Type, h.Level),
		"Location: " + h.Location,
		fmt.Sprintf("Storage %d  Gold %d", h.StorageItems, h.Gold),
		fmt.Sprintf("Residents %d", h.Residents),
	}
}

// Draw renders the tab panel, the event log, key hints and the creation
// alert banner.
func (h *HUD) Draw(screen *ebiten.Image, w *World, volume float64) {
	sw := int(w.ViewW)
	sh := int(w.ViewH)

	lines := h.Lines(&w.Session, w.NPCs)
	x := sw - hudPanelWidth - hudPad
	ph := (len(lines)+1)*hudLineHeight + 2*hudPad
	vector.FillRect(screen, float32(x), hudPad, hudPanelWidth, float32(ph), hudBackground, false)
	vector.StrokeRect(screen, float32(x), hudPad, hudPanelWidth, float32(ph), 1, hudFrame, false)

	tabs := make([]string, hudTabCount)
	for t := HUDTab(0); t < hudTabCount; t++ {
		tabs[t] = t.String()
		if t == h.Tab {
			tabs[t] = "[" + tabs[t] + "]"
		}
	}
	h.text(screen, strings.Join(tabs, " "), x+hudPad, 2*hudPad, hudDim)
	for i, l := range lines {
		h.text(screen, l, x+hudPad, 2*hudPad+(i+1)*hudLineHeight, hudText)
	}

	w.Events.Draw(screen, hudPad, sh-hudPad-hudLineHeight)

	hint := fmt.Sprintf("Tab panels  G/T/E actions  R reset  +/- vol %.0f%%  M mute  F3 paths  C report", volume*100)
	h.text(screen, hint, hudPad, sh-hudLineHeight, hudDim)

	if w.Session.CreateError != "" {
		msg := "Character creation failed: " + w.Session.CreateError + "  (Enter to dismiss, R to retry)"
		vector.FillRect(screen, 0, 0, float32(sw), hudLineHeight+2*hudPad, hudAlert, false)
		h.text(screen, msg, hudPad, hudPad, hudText)
	}
}

func (h *HUD) text(screen *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, h.face, op)
}
