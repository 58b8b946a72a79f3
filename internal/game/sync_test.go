package game

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/Garsondee/codexrpg-client/internal/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errNotFound = &api.StatusError{Method: "GET", Code: 404}

type fakeService struct {
	mu          sync.Mutex
	infoCalls   int
	infoErr     error
	createErr   error
	blockCreate bool
	assets      map[string][]byte
}

func (f *fakeService) Classes(context.Context) ([]api.Class, error) {
	return []api.Class{{ID: "warrior"}, {ID: "mage"}}, nil
}

func (f *fakeService) CreatePlayer(ctx context.Context, name, class string) (*api.PlayerInfo, error) {
	if f.blockCreate {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &api.PlayerInfo{Name: name, Class: class, HP: 10, MaxHP: 10}, nil
}

func (f *fakeService) PlayerInfo(context.Context) (*api.PlayerInfo, error) {
	f.mu.Lock()
	f.infoCalls++
	f.mu.Unlock()
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return &api.PlayerInfo{Name: "Ayla", Gold: 9}, nil
}

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoCalls
}

func (f *fakeService) Action(_ context.Context, action string) (*api.ActionResult, error) {
	if action == "bogus" {
		return nil, errors.New("unknown action")
	}
	return &api.ActionResult{Success: true, Message: "You rest."}, nil
}

func (f *fakeService) World(context.Context) (*api.WorldInfo, error) {
	return &api.WorldInfo{Width: 2, Height: 1, Grid: [][]string{{"plains", "forest"}}}, nil
}

func (f *fakeService) NPCs(context.Context) ([]api.NPC, error) {
	return []api.NPC{{ID: "n1", Name: "Mara"}}, nil
}

func (f *fakeService) Quests(context.Context) ([]api.Quest, error) {
	return []api.Quest{{Title: "Herbs"}}, nil
}

func (f *fakeService) Reputation(context.Context) (map[string]api.Standing, error) {
	return map[string]api.Standing{"merchant_guild": {Status: "friendly"}}, nil
}

func (f *fakeService) Homestead(context.Context) (*api.Homestead, error) {
	return nil, errNotFound
}

func (f *fakeService) Asset(_ context.Context, path string) ([]byte, error) {
	if b, ok := f.assets[path]; ok {
		return b, nil
	}
	return nil, errNotFound
}

func nextMessage(t *testing.T, in *Inbox) Message {
	t.Helper()
	select {
	case m := <-in.ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func pngSheet(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestInbox_DrainOnlyQueued(t *testing.T) {
	in := NewInbox(4)
	ctx := context.Background()
	in.Post(ctx, QuestsLoaded{})
	in.Post(ctx, QuestsLoaded{})

	n := in.Drain(func(Message) {
		in.Post(ctx, QuestsLoaded{}) // arrives during the drain
	})
	if n != 2 {
		t.Fatalf("drained %d, want 2", n)
	}
	if in.Len() != 2 {
		t.Fatalf("left %d queued, want 2", in.Len())
	}
}

func TestInbox_PostFullHonoursContext(t *testing.T) {
	in := NewInbox(1)
	if !in.Post(context.Background(), QuestsLoaded{}) {
		t.Fatal("post into empty inbox failed")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if in.Post(ctx, QuestsLoaded{}) {
		t.Fatal("post into a full inbox should give up when ctx ends")
	}
}

func TestBridge_StartLoadsClassesAndAssets(t *testing.T) {
	svc := &fakeService{assets: map[string][]byte{
		"/static/sprites/player.png": pngSheet(t, 16, 4),
		clickSamplePath:              []byte("RIFF"),
	}}
	in := NewInbox(8)
	b := NewBridge(svc, in, time.Hour, nil)
	b.Start()

	var classes, sprite, sample bool
	for i := 0; i < 3; i++ {
		switch m := nextMessage(t, in).(type) {
		case ClassesLoaded:
			classes = len(m.Classes) == 2
		case SpriteLoaded:
			sprite = m.Kind == SpritePlayer && m.Image.Bounds().Dx() == 16
		case SampleLoaded:
			sample = string(m.Data) == "RIFF"
		default:
			t.Fatalf("unexpected %T", m)
		}
	}
	b.Close()
	if !classes || !sprite || !sample {
		t.Fatalf("classes=%v sprite=%v sample=%v", classes, sprite, sample)
	}
	if in.Len() != 0 {
		t.Fatalf("missing NPC sprite should post nothing, got %d extra", in.Len())
	}
}

func TestBridge_CreatePlayerLoadsSession(t *testing.T) {
	in := NewInbox(16)
	b := NewBridge(&fakeService{}, in, time.Hour, nil)
	b.CreatePlayer("Ayla", "ranger")

	first, ok := nextMessage(t, in).(PlayerCreated)
	if !ok || first.Info.Name != "Ayla" || first.Info.Class != "ranger" {
		t.Fatalf("first message = %+v", first)
	}
	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		switch nextMessage(t, in).(type) {
		case WorldLoaded:
			seen["world"] = true
		case RosterLoaded:
			seen["npcs"] = true
		case QuestsLoaded:
			seen["quests"] = true
		case ReputationLoaded:
			seen["reputation"] = true
		}
	}
	b.Close()
	if len(seen) != 4 {
		t.Fatalf("session loads = %v", seen)
	}
	if in.Len() != 0 {
		t.Fatal("missing homestead should post nothing")
	}
}

func TestBridge_CreatePlayerFailure(t *testing.T) {
	in := NewInbox(4)
	b := NewBridge(&fakeService{createErr: errors.New("name taken")}, in, time.Hour, nil)
	defer b.Close()
	b.CreatePlayer("Ayla", "ranger")
	m, ok := nextMessage(t, in).(PlayerCreateFailed)
	if !ok || m.Err.Error() != "name taken" {
		t.Fatalf("got %+v", m)
	}
}

func TestBridge_ActionRefreshesPlayer(t *testing.T) {
	in := NewInbox(4)
	svc := &fakeService{}
	b := NewBridge(svc, in, time.Hour, nil)
	b.Action(api.ActionRest)

	var done, info bool
	for i := 0; i < 2; i++ {
		switch m := nextMessage(t, in).(type) {
		case ActionDone:
			done = m.Action == api.ActionRest && m.Result.Message == "You rest."
		case PlayerInfoLoaded:
			info = m.Info.Gold == 9
		}
	}
	b.Action("bogus")
	b.Close()
	if !done || !info {
		t.Fatalf("done=%v info=%v", done, info)
	}
	if in.Len() != 0 {
		t.Fatal("failed action should post nothing")
	}
}

func TestBridge_PollsOnlyWhileActive(t *testing.T) {
	in := NewInbox(64)
	svc := &fakeService{}
	b := NewBridge(svc, in, 10*time.Millisecond, nil)
	b.Start()
	defer b.Close()

	time.Sleep(60 * time.Millisecond)
	if n := svc.calls(); n != 0 {
		t.Fatalf("inactive bridge refreshed %d times", n)
	}
	b.SetActive(true)
	deadline := time.Now().Add(2 * time.Second)
	for svc.calls() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("active bridge never refreshed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBridge_CloseCancelsInFlight(t *testing.T) {
	in := NewInbox(4)
	b := NewBridge(&fakeService{blockCreate: true}, in, time.Hour, nil)
	b.CreatePlayer("Ayla", "ranger")

	done := make(chan struct{})
	go func() {
		b.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
	if in.Len() != 0 {
		t.Fatal("cancelled create must not post a failure")
	}
}

func TestBridge_NoPlayerRefreshIsQuiet(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	in := NewInbox(4)
	svc := &fakeService{infoErr: &api.StatusError{Method: "GET", Path: "/player/info", Code: 400, Message: "No player created"}}
	b := NewBridge(svc, in, time.Hour, zap.New(core))
	b.refreshPlayer()
	b.Close()

	if in.Len() != 0 {
		t.Fatal("failed refresh posted a message")
	}
	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 0 {
		t.Fatalf("missing player logged %d warnings", n)
	}
	if logs.FilterMessage("player info skipped, no player").Len() != 1 {
		t.Fatalf("debug entry missing: %+v", logs.All())
	}

	svc.infoErr = errors.New("connection reset")
	b2 := NewBridge(svc, in, time.Hour, zap.New(core))
	b2.refreshPlayer()
	b2.Close()
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatal("other refresh failures should still warn")
	}
}
