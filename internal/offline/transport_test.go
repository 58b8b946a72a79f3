package offline

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

// fakeBase answers every request with body, or fails when down is set.
type fakeBase struct {
	body  string
	down  atomic.Bool
	calls atomic.Int32
}

func (f *fakeBase) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls.Add(1)
	if f.down.Load() {
		return nil, errors.New("connection refused")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    req,
	}, nil
}

func get(t *testing.T, rt http.RoundTripper, url string) (string, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b), nil
}

func TestTransport_APINetworkFirst(t *testing.T) {
	base := &fakeBase{body: `{"quests":[]}`}
	tr := NewTransport(base, NewMemoryStore(), 1, "/api", zap.NewNop())

	body, err := get(t, tr, "http://svc/api/quests")
	if err != nil || body != `{"quests":[]}` {
		t.Fatalf("first GET = %q, %v", body, err)
	}

	base.body = `{"quests":[{"title":"new"}]}`
	body, _ = get(t, tr, "http://svc/api/quests")
	if !strings.Contains(body, "new") {
		t.Fatalf("network-first should return fresh data, got %q", body)
	}

	base.down.Store(true)
	body, err = get(t, tr, "http://svc/api/quests")
	if err != nil {
		t.Fatalf("offline GET should be served from cache: %v", err)
	}
	if !strings.Contains(body, "new") {
		t.Fatalf("cache should hold the latest response, got %q", body)
	}
}

func TestTransport_APIOfflineWithoutCacheFails(t *testing.T) {
	base := &fakeBase{}
	base.down.Store(true)
	tr := NewTransport(base, NewMemoryStore(), 1, "/api", nil)
	if _, err := get(t, tr, "http://svc/api/npcs"); err == nil {
		t.Fatal("expected error with no cached copy")
	}
}

func TestTransport_StaticCacheFirst(t *testing.T) {
	base := &fakeBase{body: "\x89PNG\x00\xff"}
	tr := NewTransport(base, NewMemoryStore(), 1, "/api", nil)

	for i := 0; i < 3; i++ {
		body, err := get(t, tr, "http://svc/static/sprites/player.png")
		if err != nil || body != "\x89PNG\x00\xff" {
			t.Fatalf("GET %d = %q, %v", i, body, err)
		}
	}
	if base.calls.Load() != 1 {
		t.Fatalf("static asset fetched %d times, want 1", base.calls.Load())
	}
}

func TestTransport_NonGETPassesThrough(t *testing.T) {
	base := &fakeBase{body: `{"success":true}`}
	store := NewMemoryStore()
	tr := NewTransport(base, store, 1, "/api", nil)

	req, _ := http.NewRequest(http.MethodPost, "http://svc/api/player/action", strings.NewReader(`{"action":"rest"}`))
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if store.Namespaces() != 0 {
		t.Fatal("POST responses must not be cached")
	}
}

func TestTransport_VersionBumpInvalidates(t *testing.T) {
	store := NewMemoryStore()
	base := &fakeBase{body: "v1 sprite"}
	tr := NewTransport(base, store, 1, "/api", nil)
	if _, err := get(t, tr, "http://svc/static/sprites/npc.png"); err != nil {
		t.Fatalf("GET: %v", err)
	}

	base.body = "v2 sprite"
	tr2 := NewTransport(base, store, 2, "/api", nil)
	body, _ := get(t, tr2, "http://svc/static/sprites/npc.png")
	if body != "v2 sprite" {
		t.Fatalf("new version served stale %q", body)
	}
	if store.Namespaces() != 1 {
		t.Fatalf("namespaces = %d, want 1 after version bump", store.Namespaces())
	}
}

func TestGdataStore_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	m, err := gdata.Open(gdata.Config{AppName: "codexrpg_offline_test"})
	if err != nil {
		t.Fatalf("gdata.Open: %v", err)
	}
	base := &fakeBase{body: `{"grid":[["plains"]]}`}
	tr := NewTransport(base, NewGdataStore(m), 3, "/api", nil)
	if _, err := get(t, tr, "http://svc/api/world/info"); err != nil {
		t.Fatalf("GET: %v", err)
	}
	base.down.Store(true)
	body, err := get(t, tr, "http://svc/api/world/info")
	if err != nil || body != `{"grid":[["plains"]]}` {
		t.Fatalf("offline GET = %q, %v", body, err)
	}
}

func TestGdataStore_VersionBumpPurgesOldNamespace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	m, err := gdata.Open(gdata.Config{AppName: "codexrpg_offline_purge_test"})
	if err != nil {
		t.Fatalf("gdata.Open: %v", err)
	}
	base := &fakeBase{body: "v1 sprite"}
	tr := NewTransport(base, NewGdataStore(m), 1, "/api", nil)
	if _, err := get(t, tr, "http://svc/static/sprites/npc.png"); err != nil {
		t.Fatalf("GET: %v", err)
	}
	if !m.ObjectExists(Namespace(1)) {
		t.Fatal("v1 entry not persisted")
	}

	// A fresh store on the same data dir sees the index written by the first.
	base.body = "v2 sprite"
	tr2 := NewTransport(base, NewGdataStore(m), 2, "/api", nil)
	if m.ObjectExists(Namespace(1)) {
		t.Fatalf("%s left on disk after version bump", Namespace(1))
	}
	body, err := get(t, tr2, "http://svc/static/sprites/npc.png")
	if err != nil || body != "v2 sprite" {
		t.Fatalf("v2 GET = %q, %v", body, err)
	}
	if !m.ObjectExists(Namespace(2)) {
		t.Fatal("v2 entry not persisted")
	}

	// Reopening at the current version keeps its entries.
	NewTransport(base, NewGdataStore(m), 2, "/api", nil)
	if !m.ObjectExists(Namespace(2)) {
		t.Fatal("current namespace purged")
	}
}

func TestNamespace(t *testing.T) {
	if Namespace(4) != "codexrpg-v4" {
		t.Fatalf("Namespace(4) = %q", Namespace(4))
	}
}
