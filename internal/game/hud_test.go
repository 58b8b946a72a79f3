package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/codexrpg-client/internal/api"
)

func TestFactionLabel(t *testing.T) {
	cases := map[string]string{
		"merchant_guild": "MERCHANT GUILD",
		"thieves":        "THIEVES",
		"":               "",
	}
	for in, want := range cases {
		if got := FactionLabel(in); got != want {
			t.Fatalf("FactionLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHUDTab_CyclesBackToStats(t *testing.T) {
	tab := TabStats
	for i := 0; i < int(hudTabCount); i++ {
		tab = tab.Next()
	}
	if tab != TabStats {
		t.Fatalf("after a full cycle tab = %s", tab)
	}
	if TabReputation.String() != "Reputation" {
		t.Fatalf("name = %q", TabReputation.String())
	}
}

func TestHUD_LinesPerTab(t *testing.T) {
	v := 12
	s := &Session{
		Name: "Ayla",
		Info: &api.PlayerInfo{
			Name: "Ayla", Class: "ranger", HP: 7, MaxHP: 10, Gold: 3,
			Skills:      []string{"track"},
			CurrentHome: &api.Homestead{Name: "Burrow", Type: "cottage", Level: 2},
		},
		Quests: []api.Quest{{Title: "Herbs", Reward: 5}},
		Reputation: map[string]api.Standing{
			"village":        {Status: "neutral"},
			"merchant_guild": {Value: &v, Status: "friendly"},
		},
	}
	npcs := []*NPC{{Name: "Mara", Role: "smith"}}
	h := &HUD{}

	stats := h.Lines(s, npcs)
	if stats[0] != "Ayla (ranger)" || !strings.Contains(stats[1], "HP 7/10") {
		t.Fatalf("stats = %q", stats)
	}

	h.Tab = TabNPCs
	if got := h.Lines(s, npcs); got[0] != "Mara, smith [IDLE]" {
		t.Fatalf("npcs = %q", got)
	}

	h.Tab = TabQuests
	if got := h.Lines(s, npcs); got[0] != "Herbs (5 gold)" {
		t.Fatalf("quests = %q", got)
	}

	h.Tab = TabReputation
	rep := h.Lines(s, npcs)
	if rep[0] != "MERCHANT GUILD: friendly (12)" || rep[1] != "VILLAGE: neutral" {
		t.Fatalf("reputation = %q", rep)
	}

	h.Tab = TabHomestead
	if got := h.Lines(s, npcs); got[0] != "Burrow (cottage) L2" {
		t.Fatalf("homestead fallback = %q", got)
	}
	s.Homestead = &api.Homestead{Name: "Keep", Type: "fort", Level: 5}
	if got := h.Lines(s, npcs); got[0] != "Keep (fort) L5" {
		t.Fatalf("homestead = %q", got)
	}
}

func TestHUD_EmptySession(t *testing.T) {
	s := &Session{Name: "Ayla", Classes: []api.Class{{ID: "warrior"}, {ID: "mage"}}}
	h := &HUD{}
	got := h.Lines(s, nil)
	if len(got) != 2 || got[1] != "Classes: warrior, mage" {
		t.Fatalf("pending stats = %q", got)
	}
	for tab, want := range map[HUDTab]string{
		TabNPCs:       "No one around.",
		TabQuests:     "No quests available.",
		TabReputation: "No standing yet.",
		TabHomestead:  "No homestead.",
	} {
		h.Tab = tab
		if got := h.Lines(s, nil); got[0] != want {
			t.Fatalf("%s = %q, want %q", tab, got, want)
		}
	}
}

func TestHUD_CreationShowsChosenClass(t *testing.T) {
	s := &Session{
		Name:  "Ayla",
		Class: "mage",
		Classes: []api.Class{
			{ID: "warrior", Name: "Warrior", HP: 120, Damage: 15, Defense: 10},
			{ID: "mage", Name: "Mage", Description: "Glass cannon.", HP: 80, Damage: 25, Defense: 5, Skills: []string{"fireball", "frost"}},
		},
	}
	got := (&HUD{}).Lines(s, nil)
	want := []string{
		"Creating Ayla...",
		"Mage: HP 80  DMG 25  DEF 5",
		"Glass cannon.",
		"Skills: fireball, frost",
		"Classes: warrior, mage",
	}
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
