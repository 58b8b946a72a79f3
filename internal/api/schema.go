package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Endpoint paths, relative to the API prefix.
const (
	PathClasses      = "/classes"
	PathPlayerCreate = "/player/create"
	PathPlayerInfo   = "/player/info"
	PathPlayerAction = "/player/action"
	PathWorldInfo    = "/world/info"
	PathNPCs         = "/npcs"
	PathQuests       = "/quests"
	PathReputation   = "/reputation"
	PathHomestead    = "/homestead"
)

// Player actions accepted by /player/action.
const (
	ActionGather       = "gather"
	ActionRest         = "rest"
	ActionTriggerEvent = "trigger_event"
)

// validator is implemented by every response schema.
type validator interface {
	validate(endpoint string) error
}

// Class is one selectable character class.
type Class struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HP          int      `json:"hp"`
	Damage      int      `json:"damage"`
	Defense     int      `json:"defense"`
	Skills      []string `json:"skills"`
}

type classesResponse struct {
	Classes []Class `json:"classes"`
}

func (r *classesResponse) validate(ep string) error {
	if r.Classes == nil {
		return missing(ep, "classes")
	}
	for i, c := range r.Classes {
		if c.ID == "" {
			return missing(ep, fmt.Sprintf("classes[%d].id", i))
		}
	}
	return nil
}

// Homestead is the player's active property.
type Homestead struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	Level        int    `json:"level"`
	StorageItems int    `json:"storage_items"`
	Gold         int    `json:"gold"`
	Residents    int    `json:"residents"`
}

func (h *Homestead) validate(ep string) error {
	if h.Name == "" {
		return missing(ep, "name")
	}
	return nil
}

// PlayerInfo is the character summary.
type PlayerInfo struct {
	Name          string     `json:"name"`
	Class         string     `json:"class"`
	HP            int        `json:"hp"`
	MaxHP         int        `json:"max_hp"`
	Damage        int        `json:"damage"`
	Defense       int        `json:"defense"`
	Gold          int        `json:"gold"`
	Skills        []string   `json:"skills"`
	InventorySize int        `json:"inventory_size"`
	ActiveQuests  int        `json:"active_quests"`
	Homesteads    int        `json:"homesteads"`
	CurrentHome   *Homestead `json:"current_home"`
	ActiveEvents  int        `json:"active_events"`
}

func (p *PlayerInfo) validate(ep string) error {
	if p.Name == "" {
		return missing(ep, "name")
	}
	if p.MaxHP < 0 {
		return &ParseError{Endpoint: ep, Field: "max_hp", Err: fmt.Errorf("negative max_hp %d", p.MaxHP)}
	}
	return nil
}

type createRequest struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

type createResponse struct {
	Success bool        `json:"success"`
	Player  *PlayerInfo `json:"player"`
}

func (r *createResponse) validate(ep string) error {
	if !r.Success {
		return &ParseError{Endpoint: ep, Field: "success", Err: errShape}
	}
	if r.Player == nil {
		return missing(ep, "player")
	}
	return r.Player.validate(ep)
}

// Event is a random world event returned by the trigger_event action.
type Event struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int    `json:"reward"`
}

type actionRequest struct {
	Action string `json:"action"`
}

// ActionResult is the reply to /player/action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Event   *Event `json:"event"`
	Gold    *int   `json:"gold"`
	HP      *int   `json:"hp"`
}

func (r *ActionResult) validate(ep string) error {
	if r.Event != nil && r.Event.Title == "" {
		return missing(ep, "event.title")
	}
	return nil
}

// WorldInfo is the biome grid of the current world.
type WorldInfo struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Grid   [][]string `json:"grid"`
}

func (w *WorldInfo) validate(ep string) error {
	if len(w.Grid) == 0 || len(w.Grid[0]) == 0 {
		return missing(ep, "grid")
	}
	cols := len(w.Grid[0])
	for y, row := range w.Grid {
		if len(row) != cols {
			return &ParseError{Endpoint: ep, Field: fmt.Sprintf("grid[%d]", y),
				Err: fmt.Errorf("%d cells, want %d: %w", len(row), cols, errShape)}
		}
	}
	return nil
}

// Location is where an NPC stands. The service sends either a place name
// or an {x, y} tile.
type Location struct {
	Name  string
	X, Y  int
	Tiled bool
}

// UnmarshalJSON accepts a string, an {x, y} object, or null.
func (l *Location) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = Location{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Location{Name: s}
		return nil
	}
	var xy struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := json.Unmarshal(b, &xy); err != nil {
		return err
	}
	if xy.X == nil || xy.Y == nil {
		return fmt.Errorf("location object needs x and y: %w", errShape)
	}
	*l = Location{X: *xy.X, Y: *xy.Y, Tiled: true}
	return nil
}

// NPC is one entry of the roster.
type NPC struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Dialogue string   `json:"dialogue"`
	Location Location `json:"location"`
}

type npcsResponse struct {
	NPCs []NPC `json:"npcs"`
}

func (r *npcsResponse) validate(ep string) error {
	if r.NPCs == nil {
		return missing(ep, "npcs")
	}
	for i, n := range r.NPCs {
		if n.Name == "" {
			return missing(ep, fmt.Sprintf("npcs[%d].name", i))
		}
	}
	return nil
}

// Quest is one available quest.
type Quest struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reward int    `json:"reward"`
}

type questsResponse struct {
	Quests []Quest `json:"quests"`
}

func (r *questsResponse) validate(ep string) error {
	if r.Quests == nil {
		return missing(ep, "quests")
	}
	for i, q := range r.Quests {
		if q.Title == "" {
			return missing(ep, fmt.Sprintf("quests[%d].title", i))
		}
	}
	return nil
}

// Standing is the player's reputation with one faction.
type Standing struct {
	Value  *int   `json:"value"`
	Status string `json:"status"`
}

type reputationResponse struct {
	Reputation map[string]Standing `json:"reputation"`
}

func (r *reputationResponse) validate(ep string) error {
	if r.Reputation == nil {
		return missing(ep, "reputation")
	}
	for k, s := range r.Reputation {
		if s.Status == "" {
			return missing(ep, "reputation."+k+".status")
		}
	}
	return nil
}

// decode unmarshals body into v and validates it.
func decode(endpoint string, body []byte, v validator) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{Endpoint: endpoint, Err: err}
	}
	return v.validate(endpoint)
}
