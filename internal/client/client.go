// Package client talks to a digest server over HTTP.
package client

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"github.com/metcalfc/digest/internal/catalog"
	"github.com/metcalfc/digest/internal/reader"
	"github.com/metcalfc/digest/internal/state"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

const (
	catalogPath  = "/reader/catalog"
	articlePath  = "/reader/article/"
	deletePath   = "/reader/delete"
	pushPath     = "/reader/push"
	settingsPath = "/reader/settings"

	tokenParam = "v_"
	statusOK   = "ok"
)

// Client implements reader.Source against a digest server.
type Client struct {
	base  *url.URL
	http  *http.Client
	cache *diskv.Diskv
	log   *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithCacheDir caches article bodies on disk under dir.
func WithCacheDir(dir string) Option {
	return func(c *Client) {
		if dir == "" {
			return
		}
		c.cache = diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 4 * 1024 * 1024,
		})
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the server at base.
func New(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", base)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: DefaultTimeout},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// token returns a fresh value for the cache-busting parameter.
func token() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// endpoint builds the URL of p below the base path. p is unescaped.
func (c *Client) endpoint(p string) string {
	u := *c.base
	u.Path = u.Path + p
	u.RawQuery = url.Values{tokenParam: {token()}}.Encode()
	return u.String()
}

func (c *Client) get(ctx context.Context, p string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(p), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, reader.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("GET %s: %s", p, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

type statusResponse struct {
	Status string `json:"status"`
}

func (c *Client) post(ctx context.Context, p string, form url.Values) error {
	form.Set(tokenParam, token())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: %s", p, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var sr statusResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return fmt.Errorf("POST %s: unable to decode response: %w", p, err)
	}
	if sr.Status != statusOK {
		return &reader.StatusError{Status: sr.Status}
	}
	return nil
}

// Catalog fetches the catalog.
func (c *Client) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	data, err := c.get(ctx, catalogPath)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch catalog: %w", err)
	}
	cat, err := catalog.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse catalog: %w", err)
	}
	c.log.Debug("Catalog fetched", zap.Int("days", len(cat.Days)), zap.Int("articles", cat.Len()))
	return cat, nil
}

func cacheKey(src string) string {
	sum := sha1.Sum([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Article fetches the HTML of an article, from the disk cache when present.
func (c *Client) Article(ctx context.Context, src string) (string, error) {
	key := cacheKey(src)
	if c.cache != nil {
		if data, err := c.cache.Read(key); err == nil {
			return string(data), nil
		}
	}

	data, err := c.get(ctx, articlePath+src)
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		if err := c.cache.Write(key, data); err != nil {
			c.log.Warn("Unable to cache article", zap.String("src", src), zap.Error(err))
		}
	}
	return string(data), nil
}

// DeleteBooks asks the server to delete books.
func (c *Client) DeleteBooks(ctx context.Context, bookDirs []string) error {
	return c.post(ctx, deletePath, url.Values{"books": {strings.Join(bookDirs, "|")}})
}

// Push asks the server to send a book or article to the user's device.
func (c *Client) Push(ctx context.Context, req reader.PushRequest) error {
	form := url.Values{
		"type":  {req.Type},
		"src":   {req.Src},
		"title": {req.Title},
	}
	if req.Language != "" {
		form.Set("language", req.Language)
	}
	return c.post(ctx, pushPath, form)
}

// SaveSettings sends reader settings to the server.
func (c *Client) SaveSettings(ctx context.Context, settings state.Settings) error {
	return c.post(ctx, settingsPath, url.Values{
		"fontSize":   {strconv.FormatFloat(settings.FontSize, 'f', 1, 64)},
		"allowLinks": {strconv.FormatBool(settings.AllowLinks)},
		"inkMode":    {strconv.FormatBool(settings.InkMode)},
	})
}

var _ reader.Source = (*Client)(nil)
