package main

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

const (
	songResults = `{"contents":{"tabbedSearchResultsRenderer":{"tabs":[{"tabRenderer":{"content":{"sectionListRenderer":{"contents":[
		{"musicCardShelfRenderer":{"title":{"runs":[{"text":"Craque","navigationEndpoint":{"browseEndpoint":{"browseId":"UCabc"}}}]},"subtitle":{"runs":[{"text":"Artist"}]}}},
		{"musicShelfRenderer":{"title":{"runs":[{"text":"Songs"}]},"contents":[
			{"musicResponsiveListItemRenderer":{"flexColumns":[{"musicResponsiveListItemFlexColumnRenderer":{"text":{"runs":[{"text":"First"}]}}}],"playlistItemData":{"videoId":"A"}}},
			{"musicResponsiveListItemRenderer":{"flexColumns":[{"musicResponsiveListItemFlexColumnRenderer":{"text":{"runs":[{"text":"Second"}]}}}],"playlistItemData":{"videoId":"B"}}}
		]}}
	]}}}}]}}}`
	noSongResults = `{"contents":{"tabbedSearchResultsRenderer":{"tabs":[{"tabRenderer":{"content":{"sectionListRenderer":{"contents":[
		{"musicCardShelfRenderer":{"title":{"runs":[{"text":"Craque","navigationEndpoint":{"browseEndpoint":{"browseId":"UCabc"}}}]},"subtitle":{"runs":[{"text":"Artist"}]}}}
	]}}}}]}}}`
)

// When set, the test binary runs main() with the arguments in
// SONGID_TEST_ARGS instead of running tests.
const childEnv = "SONGID_TEST_CHILD"

func TestExitCode(t *testing.T) {
	if os.Getenv(childEnv) == "1" {
		os.Args = append([]string{"songid"}, strings.Split(os.Getenv("SONGID_TEST_ARGS"), "\x1f")...)
		main()
		return
	}

	t.Run("Song found exits 220 with the id", func(t *testing.T) {
		serv := MakeSearchServer(http.StatusOK, songResults)
		defer serv.Close()

		out, code := runSelf(t, serv.URL, "main33", "craque")
		if code != 220 {
			t.Errorf("want 220, got %d", code)
		}
		if out != "A\n" {
			t.Errorf("want %q, got %q", "A\n", out)
		}
	})

	t.Run("No song still exits 220 with an empty line", func(t *testing.T) {
		serv := MakeSearchServer(http.StatusOK, noSongResults)
		defer serv.Close()

		out, code := runSelf(t, serv.URL, "main33", "craque")
		if code != 220 {
			t.Errorf("want 220, got %d", code)
		}
		if out != "\n" {
			t.Errorf("want %q, got %q", "\n", out)
		}
	})

	t.Run("Unknown function fails before 220", func(t *testing.T) {
		serv := MakeSearchServer(http.StatusOK, songResults)
		defer serv.Close()

		out, code := runSelf(t, serv.URL, "main34", "craque")
		if code == 220 || code == 0 {
			t.Errorf("want failure status, got %d", code)
		}
		if out != "" {
			t.Errorf("want no output, got %q", out)
		}
	})

	t.Run("Upstream failure fails before 220", func(t *testing.T) {
		serv := MakeSearchServer(http.StatusInternalServerError, "")
		defer serv.Close()

		out, code := runSelf(t, serv.URL, "main33", "craque")
		if code != 1 {
			t.Errorf("want 1, got %d", code)
		}
		if out != "" {
			t.Errorf("want no output, got %q", out)
		}
	})

	t.Run("Blank query fails before 220", func(t *testing.T) {
		serv := MakeSearchServer(http.StatusOK, songResults)
		defer serv.Close()

		out, code := runSelf(t, serv.URL, "main33", "  ")
		if code != 1 {
			t.Errorf("want 1, got %d", code)
		}
		if out != "" {
			t.Errorf("want no output, got %q", out)
		}
	})

	t.Run("Missing query is a usage error", func(t *testing.T) {
		_, code := runSelf(t, "http://127.0.0.1:0", "main33")
		if code != 2 {
			t.Errorf("want 2, got %d", code)
		}
	})
}

// Helpers //

// runSelf re-executes the test binary as the program and returns its stdout
// and exit status.
func runSelf(t *testing.T, ytURL string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^TestExitCode$")
	cmd.Env = append(os.Environ(),
		childEnv+"=1",
		"SONGID_TEST_ARGS="+strings.Join(args, "\x1f"),
		"SONGID_YTMUSIC_URL="+ytURL,
		"SONGID_RATE=1000",
		"SONGID_LOG_LEVEL=error",
		"OTEL_EXPORTER_OTLP_ENDPOINT=",
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	var ee *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), 0
	case errors.As(err, &ee):
		return stdout.String(), ee.ExitCode()
	}
	t.Fatalf("running child: %v", err)
	return "", -1
}

func MakeSearchServer(status int, body string) *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/youtubei/v1/search", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(status)
		_, err := w.Write([]byte(body))
		if err != nil {
			log.Fatal(err)
		}
	}).Methods(http.MethodPost)
	return httptest.NewServer(r)
}
