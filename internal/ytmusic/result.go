package ytmusic

// Result types as reported by YouTube Music.
const (
	TypeSong     = "song"
	TypeVideo    = "video"
	TypeAlbum    = "album"
	TypeArtist   = "artist"
	TypePlaylist = "playlist"
	TypeEpisode  = "episode"
	TypePodcast  = "podcast"
	TypeProfile  = "profile"
)

// Result is one entry of a search response, in the order YouTube Music returned it.
type Result struct {
	ResultType string   `json:"resultType"`
	VideoID    string   `json:"videoId,omitempty"`
	BrowseID   string   `json:"browseId,omitempty"`
	Title      string   `json:"title,omitempty"`
	Artists    []string `json:"artists,omitempty"`
	Category   string   `json:"category,omitempty"`
}

// FirstSong returns the first song-typed result. Later songs are ignored.
func FirstSong(results []Result) (Result, bool) {
	for _, r := range results {
		if r.ResultType == TypeSong {
			return r, true
		}
	}
	return Result{}, false
}

// Songs returns every song-typed result, keeping order.
func Songs(results []Result) []Result {
	var songs []Result
	for _, r := range results {
		if r.ResultType == TypeSong {
			songs = append(songs, r)
		}
	}
	return songs
}
