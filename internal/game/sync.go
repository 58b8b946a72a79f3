package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Garsondee/codexrpg-client/internal/api"
	"go.uber.org/zap"
)

// DefaultInboxSize is the inbox capacity when none is configured.
const DefaultInboxSize = 64

// DefaultRefreshInterval is how often player info is re-fetched while a
// session is active.
const DefaultRefreshInterval = 5 * time.Second

// Inbox is the bounded queue between network goroutines and the frame loop.
type Inbox struct {
	ch chan Message
}

// NewInbox creates an inbox holding up to size messages.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{ch: make(chan Message, size)}
}

// Post enqueues m, waiting for space until ctx is done.
func (in *Inbox) Post(ctx context.Context, m Message) bool {
	select {
	case in.ch <- m:
		return true
	case <-ctx.Done():
		return false
	}
}

// Drain hands every message queued at call time to fn, in arrival order.
// Messages posted while draining wait for the next call.
func (in *Inbox) Drain(fn func(Message)) int {
	n := len(in.ch)
	for i := 0; i < n; i++ {
		select {
		case m := <-in.ch:
			fn(m)
		default:
			return i
		}
	}
	return n
}

// Len returns the number of queued messages.
func (in *Inbox) Len() int { return len(in.ch) }

// Service is the subset of the game service the bridge calls.
type Service interface {
	Classes(ctx context.Context) ([]api.Class, error)
	CreatePlayer(ctx context.Context, name, class string) (*api.PlayerInfo, error)
	PlayerInfo(ctx context.Context) (*api.PlayerInfo, error)
	Action(ctx context.Context, action string) (*api.ActionResult, error)
	World(ctx context.Context) (*api.WorldInfo, error)
	NPCs(ctx context.Context) ([]api.NPC, error)
	Quests(ctx context.Context) ([]api.Quest, error)
	Reputation(ctx context.Context) (map[string]api.Standing, error)
	Homestead(ctx context.Context) (*api.Homestead, error)
	Asset(ctx context.Context, path string) ([]byte, error)
}

// Static asset locations. Sprite formats are tried in order.
var (
	playerSpritePaths = []string{"/static/sprites/player.png", "/static/sprites/player.webp", "/static/sprites/player.bmp"}
	npcSpritePaths    = []string{"/static/sprites/npc.png", "/static/sprites/npc.webp", "/static/sprites/npc.bmp"}
)

const clickSamplePath = "/static/sfx/click.wav"

// Bridge runs service calls on their own goroutines and posts the results
// to the inbox. Every failure except character creation is logged and
// dropped.
type Bridge struct {
	svc     Service
	inbox   *Inbox
	log     *zap.Logger
	refresh time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	active atomic.Bool
}

// NewBridge creates a bridge; Start launches the background poller.
func NewBridge(svc Service, inbox *Inbox, refresh time.Duration, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{svc: svc, inbox: inbox, log: log, refresh: refresh, ctx: ctx, cancel: cancel}
}

// Start fetches the class list and static assets and begins periodic
// refresh.
func (b *Bridge) Start() {
	b.goFetch("classes", func(ctx context.Context) (Message, error) {
		classes, err := b.svc.Classes(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(classes))
		for i, c := range classes {
			ids[i] = c.ID
		}
		b.log.Info("classes available", zap.Strings("ids", ids))
		return ClassesLoaded{Classes: classes}, nil
	})
	b.loadSprite(SpritePlayer, playerSpritePaths)
	b.loadSprite(SpriteNPC, npcSpritePaths)
	b.goFetch("click sample", func(ctx context.Context) (Message, error) {
		data, err := b.svc.Asset(ctx, clickSamplePath)
		if err != nil {
			return nil, optional(err)
		}
		return SampleLoaded{Data: data}, nil
	})

	b.wg.Add(1)
	go b.poll()
}

// Close cancels in-flight calls and waits for every goroutine to exit.
func (b *Bridge) Close() {
	b.cancel()
	b.wg.Wait()
}

// SetActive toggles periodic refresh.
func (b *Bridge) SetActive(active bool) { b.active.Store(active) }

// CreatePlayer creates the character and, on success, loads the world and
// the session panels.
func (b *Bridge) CreatePlayer(name, class string) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		info, err := b.svc.CreatePlayer(b.ctx, name, class)
		if err != nil {
			if b.ctx.Err() == nil {
				b.log.Warn("create player failed", zap.String("name", name), zap.String("class", class), zap.Error(err))
				b.inbox.Post(b.ctx, PlayerCreateFailed{Err: err})
			}
			return
		}
		b.log.Info("player created", zap.String("name", info.Name), zap.String("class", info.Class))
		if !b.inbox.Post(b.ctx, PlayerCreated{Info: info}) {
			return
		}
		b.loadSession()
	}()
}

// Action performs a player action and refreshes player info on success.
func (b *Bridge) Action(action string) {
	b.goFetch("action "+action, func(ctx context.Context) (Message, error) {
		res, err := b.svc.Action(ctx, action)
		if err != nil {
			return nil, err
		}
		if res.Success {
			b.refreshPlayer()
		}
		return ActionDone{Action: action, Result: res}, nil
	})
}

func (b *Bridge) loadSession() {
	b.goFetch("world", func(ctx context.Context) (Message, error) {
		info, err := b.svc.World(ctx)
		if err != nil {
			return nil, err
		}
		g, err := NewGrid(info.Grid)
		if err != nil {
			return nil, err
		}
		return WorldLoaded{Grid: g}, nil
	})
	b.goFetch("npcs", func(ctx context.Context) (Message, error) {
		npcs, err := b.svc.NPCs(ctx)
		if err != nil {
			return nil, err
		}
		return RosterLoaded{NPCs: npcs}, nil
	})
	b.goFetch("quests", func(ctx context.Context) (Message, error) {
		q, err := b.svc.Quests(ctx)
		if err != nil {
			return nil, err
		}
		return QuestsLoaded{Quests: q}, nil
	})
	b.goFetch("reputation", func(ctx context.Context) (Message, error) {
		r, err := b.svc.Reputation(ctx)
		if err != nil {
			return nil, err
		}
		return ReputationLoaded{Reputation: r}, nil
	})
	b.goFetch("homestead", func(ctx context.Context) (Message, error) {
		h, err := b.svc.Homestead(ctx)
		if err != nil {
			return nil, optional(err)
		}
		return HomesteadLoaded{Homestead: h}, nil
	})
}

func (b *Bridge) refreshPlayer() {
	b.goFetch("player info", func(ctx context.Context) (Message, error) {
		info, err := b.svc.PlayerInfo(ctx)
		if err != nil {
			return nil, err
		}
		return PlayerInfoLoaded{Info: info}, nil
	})
}

func (b *Bridge) loadSprite(kind SpriteKind, paths []string) {
	b.goFetch(kind.String()+" sprite", func(ctx context.Context) (Message, error) {
		var lastErr error
		for _, p := range paths {
			data, err := b.svc.Asset(ctx, p)
			if err != nil {
				lastErr = err
				continue
			}
			img, err := DecodeSprite(data)
			if err != nil {
				lastErr = err
				continue
			}
			return SpriteLoaded{Kind: kind, Image: img}, nil
		}
		return nil, optional(lastErr)
	})
}

func (b *Bridge) poll() {
	defer b.wg.Done()
	t := time.NewTicker(b.refresh)
	defer t.Stop()
	for {
		select {
		case <-b.ctx.Done():
			return
		case <-t.C:
			if b.active.Load() {
				b.refreshPlayer()
			}
		}
	}
}

// goFetch runs fn on its own goroutine and posts its message.
func (b *Bridge) goFetch(what string, fn func(ctx context.Context) (Message, error)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		m, err := fn(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			var opt *optionalError
			switch {
			case errors.As(err, &opt):
				b.log.Debug(what+" unavailable", zap.Error(opt.err))
			case errors.Is(err, api.ErrNoPlayer):
				// Session reset while the call was in flight.
				b.log.Debug(what+" skipped, no player", zap.Error(err))
			default:
				b.log.Warn(what+" failed", zap.Error(err))
			}
			return
		}
		b.inbox.Post(b.ctx, m)
	}()
}

// optionalError marks failures of resources the client can do without.
type optionalError struct{ err error }

func (e *optionalError) Error() string { return e.err.Error() }
func (e *optionalError) Unwrap() error { return e.err }

func optional(err error) error {
	if err == nil {
		err = errors.New("no candidate")
	}
	return &optionalError{err: err}
}
