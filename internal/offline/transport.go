// Package offline provides a caching http.RoundTripper so the client keeps
// working from its last good responses when the service is unreachable.
package offline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Namespace returns the cache namespace for a cache version.
func Namespace(version int) string {
	return fmt.Sprintf("codexrpg-v%d", version)
}

type entry struct {
	Status int                 `yaml:"status"`
	Header map[string][]string `yaml:"header"`
	Body   string              `yaml:"body"` // non-UTF-8 bodies are emitted as !!binary
}

// Transport caches GET responses.
//
// API GETs (under APIPrefix) go network-first: a 200 refreshes the cache and
// a transport failure falls back to the cached copy. Other GETs go
// cache-first and are stored on a 200 miss. Non-GET requests pass through.
type Transport struct {
	Base      http.RoundTripper
	Store     Store
	Namespace string
	APIPrefix string
	Log       *zap.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, store Store, version int, apiPrefix string, log *zap.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if log == nil {
		log = zap.NewNop()
	}
	if apiPrefix == "" {
		apiPrefix = "/api"
	}
	if err := store.Retain(Namespace(version)); err != nil {
		log.Warn("purge old cache versions", zap.Error(err))
	}
	return &Transport{
		Base:      base,
		Store:     store,
		Namespace: Namespace(version),
		APIPrefix: strings.TrimRight(apiPrefix, "/"),
		Log:       log,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.Base.RoundTrip(req)
	}
	if t.isAPI(req) {
		return t.networkFirst(req)
	}
	return t.cacheFirst(req)
}

func (t *Transport) isAPI(req *http.Request) bool {
	p := req.URL.Path
	return p == t.APIPrefix || strings.HasPrefix(p, t.APIPrefix+"/")
}

func (t *Transport) networkFirst(req *http.Request) (*http.Response, error) {
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		if cached, ok := t.load(req); ok {
			t.Log.Debug("serving cached response", zap.String("url", req.URL.String()), zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	return t.store(req, resp)
}

func (t *Transport) cacheFirst(req *http.Request) (*http.Response, error) {
	if cached, ok := t.load(req); ok {
		return cached, nil
	}
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	return t.store(req, resp)
}

// store caches a 200 response and hands back an equivalent, unread response.
func (t *Transport) store(req *http.Request, resp *http.Response) (*http.Response, error) {
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL.Path, err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))

	data, err := yaml.Marshal(entry{Status: resp.StatusCode, Header: resp.Header, Body: string(body)})
	if err == nil {
		err = t.Store.Save(t.Namespace, cacheKey(req), data)
	}
	if err != nil {
		t.Log.Debug("cache write failed", zap.String("url", req.URL.String()), zap.Error(err))
	}
	return resp, nil
}

func (t *Transport) load(req *http.Request) (*http.Response, bool) {
	data, ok := t.Store.Load(t.Namespace, cacheKey(req))
	if !ok {
		return nil, false
	}
	var e entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header(e.Header),
		Body:          io.NopCloser(strings.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}, true
}

// cacheKey is a filename-safe, stable key for the request URL.
func cacheKey(req *http.Request) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(req.URL.String())).String()
}
