package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/maroda/songid/internal/ytmusic"
)

// DiagnosticExitCode is what the process returns after any command that ran
// to completion, match or not. Callers use it to check that they see the
// child's real exit status; it does not signal success or failure.
const DiagnosticExitCode = 220

var ErrUnknownCommand = errors.New("unknown command")

// Searcher is the catalog search the commands depend on.
type Searcher interface {
	Search(ctx context.Context, query string) ([]ytmusic.Result, error)
}

// Env is what a command gets to work with.
type Env struct {
	Search         Searcher
	HTTP           *http.Client
	MusicBrainzURL string
	ThumbnailURL   string
}

// NewEnv wires the upstream clients from cfg.
func NewEnv(cfg *Config) *Env {
	hc := NewHTTPClient(cfg.Timeout, cfg.Rate)
	return &Env{
		Search: ytmusic.NewClient(
			ytmusic.WithBaseURL(cfg.YTMusicURL),
			ytmusic.WithHTTPClient(hc),
			ytmusic.WithLocale(cfg.HL, cfg.GL),
		),
		HTTP:           hc,
		MusicBrainzURL: cfg.MusicBrainzURL,
		ThumbnailURL:   cfg.ThumbnailURL,
	}
}

// Handler runs one command and returns the lines to print.
type Handler func(ctx context.Context, env *Env, query string) ([]string, error)

// Commands maps a command name to its handler.
var Commands = map[string]Handler{
	"main33": FirstSongID,
	"song":   FirstSongID,
	"songs":  AllSongIDs,
	"cover":  FirstSongCover,
	"artist": ArtistName,
}

// Names lists the registered commands, sorted.
func Names() []string {
	names := make([]string, 0, len(Commands))
	for n := range Commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named command and writes its output to w. A command with
// nothing to report still writes one empty line.
func Dispatch(ctx context.Context, env *Env, name, query string, w io.Writer) error {
	h, ok := Commands[name]
	if !ok {
		return fmt.Errorf("%w %q (have %s)", ErrUnknownCommand, name, strings.Join(Names(), ", "))
	}

	ctx, span := tracer().Start(ctx, "command."+name)
	defer span.End()
	span.SetAttributes(attribute.String("songid.query", query))

	lines, err := h(ctx, env, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	span.SetAttributes(attribute.Int("songid.lines", len(lines)))

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// FirstSongID prints the identifier of the first song-typed result.
func FirstSongID(ctx context.Context, env *Env, query string) ([]string, error) {
	results, err := env.Search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	song, ok := ytmusic.FirstSong(results)
	if !ok {
		slog.Info("no song in results", slog.String("query", query), slog.Int("results", len(results)))
		return nil, nil
	}
	return []string{song.VideoID}, nil
}

// AllSongIDs prints every song identifier in result order.
func AllSongIDs(ctx context.Context, env *Env, query string) ([]string, error) {
	results, err := env.Search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, s := range ytmusic.Songs(results) {
		ids = append(ids, s.VideoID)
	}
	return ids, nil
}

// FirstSongCover prints the largest available thumbnail of the first song.
func FirstSongCover(ctx context.Context, env *Env, query string) ([]string, error) {
	results, err := env.Search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	song, ok := ytmusic.FirstSong(results)
	if !ok {
		return nil, nil
	}
	u, err := CoverURL(ctx, env.HTTP, env.ThumbnailURL, song.VideoID)
	if err != nil {
		return nil, err
	}
	return []string{u}, nil
}

// ArtistName prints the best MusicBrainz artist match.
func ArtistName(ctx context.Context, env *Env, query string) ([]string, error) {
	ok, name, err := NewMBQuestion(env.MusicBrainzURL, query, "artist").ArtistSearch(ctx, env.HTTP)
	if err != nil || !ok {
		return nil, err
	}
	return []string{name}, nil
}
