// Package ytmusic searches the YouTube Music catalog through its InnerTube API.
package ytmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://music.youtube.com"
	searchPath     = "/youtubei/v1/search?alt=json&prettyPrint=false"
	clientName     = "WEB_REMIX"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

var (
	ErrEmptyQuery = errors.New("ytmusic: empty query")
	ErrStatus     = errors.New("ytmusic: unexpected status")
)

// Client talks to one InnerTube endpoint. The zero value is not usable; use NewClient.
type Client struct {
	baseURL string
	http    *http.Client
	hl      string
	gl      string
	version string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLocale sets the interface language and region sent with every request.
func WithLocale(hl, gl string) Option {
	return func(c *Client) {
		c.hl = hl
		c.gl = gl
	}
}

func WithClientVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		hl:      "en",
		gl:      "US",
		version: "1." + time.Now().UTC().Format("20060102") + ".01.00",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchRequest struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
			HL            string `json:"hl,omitempty"`
			GL            string `json:"gl,omitempty"`
		} `json:"client"`
		User struct{} `json:"user"`
	} `json:"context"`
	Query string `json:"query"`
}

// Search runs an unfiltered catalog search and returns the results in the
// order the service ranked them.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	// A blank query is refused here rather than sent upstream, so the
	// process fails instead of printing an empty line with status 220.
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	var body searchRequest
	body.Context.Client.ClientName = clientName
	body.Context.Client.ClientVersion = c.version
	body.Context.Client.HL = c.hl
	body.Context.Client.GL = c.gl
	body.Query = query

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + searchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")

	slog.Debug("searching catalog", slog.String("url", url), slog.String("query", query))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d from %s", ErrStatus, resp.StatusCode, url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	results, err := ParseSearch(raw)
	if err != nil {
		return nil, err
	}
	slog.Debug("search done", slog.String("query", query), slog.Int("results", len(results)))
	return results, nil
}
