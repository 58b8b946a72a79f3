package game

import (
	"image"

	"github.com/Garsondee/codexrpg-client/internal/api"
)

// Message is a network result delivered to the simulation through the Inbox.
type Message interface {
	isMessage()
}

type ClassesLoaded struct{ Classes []api.Class }

type PlayerCreated struct{ Info *api.PlayerInfo }

// PlayerCreateFailed is the only failure surfaced to the user.
type PlayerCreateFailed struct{ Err error }

type PlayerInfoLoaded struct{ Info *api.PlayerInfo }

// WorldLoaded carries an already-validated grid; construction happens off
// the tick.
type WorldLoaded struct{ Grid *Grid }

type RosterLoaded struct{ NPCs []api.NPC }

type QuestsLoaded struct{ Quests []api.Quest }

type ReputationLoaded struct{ Reputation map[string]api.Standing }

type HomesteadLoaded struct{ Homestead *api.Homestead }

type ActionDone struct {
	Action string
	Result *api.ActionResult
}

// SpriteKind selects which sprite sheet an image belongs to.
type SpriteKind int

const (
	SpritePlayer SpriteKind = iota
	SpriteNPC
)

func (k SpriteKind) String() string {
	if k == SpriteNPC {
		return "npc"
	}
	return "player"
}

type SpriteLoaded struct {
	Kind  SpriteKind
	Image image.Image
}

// SampleLoaded carries the raw bytes of the optional click sample.
type SampleLoaded struct{ Data []byte }

func (ClassesLoaded) isMessage()      {}
func (PlayerCreated) isMessage()      {}
func (PlayerCreateFailed) isMessage() {}
func (PlayerInfoLoaded) isMessage()   {}
func (WorldLoaded) isMessage()        {}
func (RosterLoaded) isMessage()       {}
func (QuestsLoaded) isMessage()       {}
func (ReputationLoaded) isMessage()   {}
func (HomesteadLoaded) isMessage()    {}
func (ActionDone) isMessage()         {}
func (SpriteLoaded) isMessage()       {}
func (SampleLoaded) isMessage()       {}
