package cmd

import (
	"context"
	"log/slog"
	"net/http"
)

const ytThumbEndpoint = "https://i.ytimg.com/vi/"

// Largest first. Not every upload has the bigger sizes.
var thumbSizes = []string{"maxresdefault.jpg", "hq720.jpg", "hqdefault.jpg"}

// CoverURL probes the thumbnail sizes of a video and returns the first one
// that exists, or "" when none does.
func CoverURL(ctx context.Context, client *http.Client, root, videoID string) (string, error) {
	for _, size := range thumbSizes {
		u := CatURL(root, videoID, "/", size)
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
		if err != nil {
			return "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			return "", err
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return u, nil
		}
		slog.Debug("thumbnail missing", slog.String("url", u), slog.Int("status", resp.StatusCode))
	}
	return "", nil
}
