package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

type MBQuestion struct {
	QString  string
	QType    string
	QFullURL string
}

type MBAnswerArtist struct {
	Count   int      `json:"count"`
	Offset  int      `json:"offset"`
	Artists []Artist `json:"artists"`
}

type Artist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Country        string `json:"country,omitempty"`
	Disambiguation string `json:"disambiguation,omitempty"`
	Score          int    `json:"score"`
}

const (
	mzEndpoint  = "https://musicbrainz.org/ws/2/"
	mzFmtString = "&fmt=json"
	mzUserAgent = "songid/1.0 ( https://github.com/maroda/songid )"
)

func NewMBQuestion(root, qSearch, qType string) *MBQuestion {
	var q string
	switch qType {
	case "artist":
		q = "/?query=artist:"
	}
	full := CatURL(strings.TrimRight(root, "/"), "/", qType, q, url.QueryEscape(qSearch), mzFmtString)
	slog.Info("Question URL", slog.String("url", full))

	return &MBQuestion{
		QString:  qSearch,
		QType:    qType,
		QFullURL: full,
	}
}

// ArtistSearch returns the best scored artist name. ok is false when
// MusicBrainz answered but matched nothing.
func (mbq *MBQuestion) ArtistSearch(ctx context.Context, client *http.Client) (bool, string, error) {
	code, info, err := FetchBody(ctx, client, mbq.QFullURL)
	if err != nil {
		slog.Error("Failed to fetch artist", slog.String("url", mbq.QFullURL))
		return false, "", err
	}
	if code != http.StatusOK {
		return false, "", fmt.Errorf("musicbrainz returned status %d", code)
	}

	newartist := &MBAnswerArtist{}
	err = json.Unmarshal([]byte(info), newartist)
	if err != nil {
		slog.Error("Failed to unmarshal artist info", slog.String("url", mbq.QFullURL))
		return false, "", err
	}
	if len(newartist.Artists) == 0 {
		return false, "", nil
	}

	name := newartist.Artists[0].Name
	return true, name, nil
}

// NewHTTPClient builds the client shared by every upstream call: traced,
// throttled to perSecond requests, bounded by timeout.
func NewHTTPClient(timeout time.Duration, perSecond float64) *http.Client {
	limited := &limitedTransport{
		limit:    rate.Limit(perSecond),
		limiters: make(map[string]*rate.Limiter),
		next:     http.DefaultTransport,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(limited),
	}
}

// limitedTransport throttles each host on its own limiter.
type limitedTransport struct {
	limit rate.Limit
	next  http.RoundTripper

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func (t *limitedTransport) limiter(host string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.limiters[host]
	if !ok {
		l = rate.NewLimiter(t.limit, 1)
		t.limiters[host] = l
	}
	return l
}

func (t *limitedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.limiter(r.URL.Host).Wait(r.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(r)
}

// FetchBody reads a url and returns the status code with body as a string
func FetchBody(ctx context.Context, client *http.Client, url string) (int, string, error) {
	slog.Info("Fetching body", slog.String("url", url))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", mzUserAgent)
	req.Header.Set("Accept", "application/json")

	r, err := client.Do(req)
	if err != nil {
		slog.Error("fetch body error")
		return 0, "", err
	}
	defer r.Body.Close()
	read, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("read body error")
		return 0, "", err
	}

	return r.StatusCode, string(read), nil
}

// CatURL takes arbitrary number of strings and concatenates them together
func CatURL(u ...string) string {
	var fullURL string
	for _, p := range u {
		fullURL = fullURL + p
	}
	slog.Debug("Catting URL", slog.String("url", fullURL))
	return fullURL
}
