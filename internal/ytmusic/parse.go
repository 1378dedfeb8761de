package ytmusic

import (
	"encoding/json"
	"fmt"
	"strings"
)

// searchResponse mirrors the part of the InnerTube search payload we read.
type searchResponse struct {
	Contents struct {
		Tabbed struct {
			Tabs []struct {
				TabRenderer struct {
					Content struct {
						SectionList struct {
							Contents []section `json:"contents"`
						} `json:"sectionListRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"tabbedSearchResultsRenderer"`
	} `json:"contents"`
}

type section struct {
	Card  *cardShelf  `json:"musicCardShelfRenderer"`
	Shelf *musicShelf `json:"musicShelfRenderer"`
}

type cardShelf struct {
	Title    text `json:"title"`
	Subtitle text `json:"subtitle"`
	Contents []struct {
		Item *listItem `json:"musicResponsiveListItemRenderer"`
	} `json:"contents"`
}

type musicShelf struct {
	Title    text `json:"title"`
	Contents []struct {
		Item *listItem `json:"musicResponsiveListItemRenderer"`
	} `json:"contents"`
}

type listItem struct {
	FlexColumns []struct {
		Column struct {
			Text text `json:"text"`
		} `json:"musicResponsiveListItemFlexColumnRenderer"`
	} `json:"flexColumns"`
	Overlay struct {
		Thumbnail struct {
			Content struct {
				PlayButton struct {
					Endpoint endpoint `json:"playNavigationEndpoint"`
				} `json:"musicPlayButtonRenderer"`
			} `json:"content"`
		} `json:"musicItemThumbnailOverlayRenderer"`
	} `json:"overlay"`
	NavigationEndpoint endpoint `json:"navigationEndpoint"`
	PlaylistItemData   struct {
		VideoID string `json:"videoId"`
	} `json:"playlistItemData"`
}

type text struct {
	Runs []run `json:"runs"`
}

type run struct {
	Text               string   `json:"text"`
	NavigationEndpoint endpoint `json:"navigationEndpoint"`
}

type endpoint struct {
	Watch *struct {
		VideoID string `json:"videoId"`
		Configs struct {
			Music struct {
				MusicVideoType string `json:"musicVideoType"`
			} `json:"watchEndpointMusicConfig"`
		} `json:"watchEndpointMusicSupportedConfigs"`
	} `json:"watchEndpoint"`
	Browse *struct {
		BrowseID string `json:"browseId"`
	} `json:"browseEndpoint"`
}

func (e endpoint) videoID() string {
	if e.Watch == nil {
		return ""
	}
	return e.Watch.VideoID
}

func (e endpoint) videoType() string {
	if e.Watch == nil {
		return ""
	}
	return e.Watch.Configs.Music.MusicVideoType
}

func (e endpoint) browseID() string {
	if e.Browse == nil {
		return ""
	}
	return e.Browse.BrowseID
}

func (t text) first() string {
	if len(t.Runs) == 0 {
		return ""
	}
	return t.Runs[0].Text
}

const topResult = "Top result"

// shelfTypes maps shelf headings to the type of every item under them.
var shelfTypes = map[string]string{
	"songs":               TypeSong,
	"videos":              TypeVideo,
	"albums":              TypeAlbum,
	"artists":             TypeArtist,
	"playlists":           TypePlaylist,
	"community playlists": TypePlaylist,
	"featured playlists":  TypePlaylist,
	"episodes":            TypeEpisode,
	"podcasts":            TypePodcast,
	"profiles":            TypeProfile,
}

// typeWords maps the type label shown in a subtitle to a result type.
var typeWords = map[string]string{
	"song":     TypeSong,
	"video":    TypeVideo,
	"album":    TypeAlbum,
	"single":   TypeAlbum,
	"ep":       TypeAlbum,
	"artist":   TypeArtist,
	"playlist": TypePlaylist,
	"episode":  TypeEpisode,
	"podcast":  TypePodcast,
	"profile":  TypeProfile,
}

// ParseSearch decodes an InnerTube search response into ordered results.
// Renderers it does not know are skipped.
func ParseSearch(body []byte) ([]Result, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	tabs := resp.Contents.Tabbed.Tabs
	if len(tabs) == 0 {
		return nil, nil
	}

	var results []Result
	for _, s := range tabs[0].TabRenderer.Content.SectionList.Contents {
		switch {
		case s.Card != nil:
			results = append(results, parseCard(s.Card))
			// Items under the top result come before the shelves.
			for _, c := range s.Card.Contents {
				if c.Item == nil {
					continue
				}
				results = append(results, parseItem(c.Item, topResult))
			}
		case s.Shelf != nil:
			category := s.Shelf.Title.first()
			for _, c := range s.Shelf.Contents {
				if c.Item == nil {
					continue
				}
				results = append(results, parseItem(c.Item, category))
			}
		}
	}
	return results, nil
}

func parseCard(c *cardShelf) Result {
	r := Result{
		Title:    c.Title.first(),
		Category: topResult,
	}
	var videoType string
	if len(c.Title.Runs) > 0 {
		ep := c.Title.Runs[0].NavigationEndpoint
		r.VideoID = ep.videoID()
		r.BrowseID = ep.browseID()
		videoType = ep.videoType()
	}
	r.Artists = artists(c.Subtitle.Runs)
	r.ResultType = typeWords[strings.ToLower(strings.TrimSpace(c.Subtitle.first()))]
	if r.ResultType == "" {
		r.ResultType = fallbackType(videoType, r.BrowseID)
	}
	return r
}

func parseItem(item *listItem, category string) Result {
	r := Result{Category: category}

	var columns []text
	for _, fc := range item.FlexColumns {
		columns = append(columns, fc.Column.Text)
	}
	var titleRun run
	if len(columns) > 0 && len(columns[0].Runs) > 0 {
		titleRun = columns[0].Runs[0]
		r.Title = titleRun.Text
	}
	var details []run
	if len(columns) > 1 {
		details = columns[1].Runs
	}

	play := item.Overlay.Thumbnail.Content.PlayButton.Endpoint
	switch {
	case play.videoID() != "":
		r.VideoID = play.videoID()
	case titleRun.NavigationEndpoint.videoID() != "":
		r.VideoID = titleRun.NavigationEndpoint.videoID()
	default:
		r.VideoID = item.PlaylistItemData.VideoID
	}
	videoType := play.videoType()
	if videoType == "" {
		videoType = titleRun.NavigationEndpoint.videoType()
	}

	r.BrowseID = item.NavigationEndpoint.browseID()
	r.Artists = artists(details)

	if t, ok := shelfTypes[strings.ToLower(category)]; ok {
		r.ResultType = t
		return r
	}
	if len(details) > 0 {
		if t, ok := typeWords[strings.ToLower(strings.TrimSpace(details[0].Text))]; ok {
			r.ResultType = t
			return r
		}
	}
	r.ResultType = fallbackType(videoType, r.BrowseID)
	return r
}

func fallbackType(videoType, browseID string) string {
	switch {
	case videoType == "MUSIC_VIDEO_TYPE_ATV":
		return TypeSong
	case videoType != "":
		return TypeVideo
	case strings.HasPrefix(browseID, "MPRE"):
		return TypeAlbum
	case strings.HasPrefix(browseID, "UC"):
		return TypeArtist
	case strings.HasPrefix(browseID, "VL"), strings.HasPrefix(browseID, "PL"):
		return TypePlaylist
	case strings.HasPrefix(browseID, "MPSP"):
		return TypePodcast
	case strings.HasPrefix(browseID, "MPED"):
		return TypeEpisode
	}
	return ""
}

// artists collects runs that link to a channel.
func artists(runs []run) []string {
	var names []string
	for _, r := range runs {
		if strings.HasPrefix(r.NavigationEndpoint.browseID(), "UC") {
			names = append(names, r.Text)
		}
	}
	return names
}
