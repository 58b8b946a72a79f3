// Package api is the typed HTTP client for the game-logic service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Options configures a Client.
type Options struct {
	Origin     string // scheme://host[:port]
	APIPrefix  string // default "/api"
	Timeout    time.Duration
	Retries    uint64 // extra attempts for a GET after a transport error or 5xx
	RetryDelay time.Duration
	Transport  http.RoundTripper
}

// Client talks to the service. It is safe for concurrent use.
type Client struct {
	origin  string
	prefix  string
	http    *http.Client
	retries uint64
	delay   time.Duration
	log     *zap.Logger
}

// New creates a Client.
func New(opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	return &Client{
		origin:  strings.TrimRight(opts.Origin, "/"),
		prefix:  strings.TrimRight(prefix, "/"),
		http:    &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		retries: opts.Retries,
		delay:   delay,
		log:     log,
	}
}

// Origin returns the service origin the client was built with.
func (c *Client) Origin() string { return c.origin }

// Classes lists the selectable character classes.
func (c *Client) Classes(ctx context.Context) ([]Class, error) {
	var r classesResponse
	if err := c.get(ctx, PathClasses, &r); err != nil {
		return nil, err
	}
	return r.Classes, nil
}

// CreatePlayer creates the session character.
func (c *Client) CreatePlayer(ctx context.Context, name, class string) (*PlayerInfo, error) {
	var r createResponse
	if err := c.post(ctx, PathPlayerCreate, createRequest{Name: name, Class: class}, &r); err != nil {
		return nil, err
	}
	return r.Player, nil
}

// PlayerInfo fetches the character summary.
func (c *Client) PlayerInfo(ctx context.Context) (*PlayerInfo, error) {
	var r PlayerInfo
	if err := c.get(ctx, PathPlayerInfo, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Action performs one of the Action* player actions.
func (c *Client) Action(ctx context.Context, action string) (*ActionResult, error) {
	var r ActionResult
	if err := c.post(ctx, PathPlayerAction, actionRequest{Action: action}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// World fetches the biome grid.
func (c *Client) World(ctx context.Context) (*WorldInfo, error) {
	var r WorldInfo
	if err := c.get(ctx, PathWorldInfo, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// NPCs fetches the NPC roster.
func (c *Client) NPCs(ctx context.Context) ([]NPC, error) {
	var r npcsResponse
	if err := c.get(ctx, PathNPCs, &r); err != nil {
		return nil, err
	}
	return r.NPCs, nil
}

// Quests fetches the available quests.
func (c *Client) Quests(ctx context.Context) ([]Quest, error) {
	var r questsResponse
	if err := c.get(ctx, PathQuests, &r); err != nil {
		return nil, err
	}
	return r.Quests, nil
}

// Reputation fetches faction standings keyed by faction id.
func (c *Client) Reputation(ctx context.Context) (map[string]Standing, error) {
	var r reputationResponse
	if err := c.get(ctx, PathReputation, &r); err != nil {
		return nil, err
	}
	return r.Reputation, nil
}

// Homestead fetches the active homestead.
func (c *Client) Homestead(ctx context.Context) (*Homestead, error) {
	var r Homestead
	if err := c.get(ctx, PathHomestead, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Asset fetches a static file (sprites, sounds) relative to the origin.
func (c *Client) Asset(ctx context.Context, path string) ([]byte, error) {
	return c.fetch(ctx, http.MethodGet, c.origin+path, path, nil)
}

func (c *Client) get(ctx context.Context, path string, v validator) error {
	body, err := c.fetch(ctx, http.MethodGet, c.origin+c.prefix+path, path, nil)
	if err != nil {
		return err
	}
	return decode(path, body, v)
}

func (c *Client) post(ctx context.Context, path string, payload any, v validator) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	body, err := c.fetch(ctx, http.MethodPost, c.origin+c.prefix+path, path, data)
	if err != nil {
		return err
	}
	return decode(path, body, v)
}

// fetch performs one request. GETs are retried on transport failures and
// 5xx replies; POSTs are sent once.
func (c *Client) fetch(ctx context.Context, method, url, path string, payload []byte) ([]byte, error) {
	if method != http.MethodGet || c.retries == 0 {
		return c.do(ctx, method, url, path, payload)
	}

	var out []byte
	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.delay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		body, err := c.do(ctx, method, url, path, payload)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code < 500 {
				return err
			}
			return retry.RetryableError(err)
		}
		out = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, url, path string, payload []byte) ([]byte, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts {"error": "..."} from a failure body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		return e.Error
	}
	return ""
}
