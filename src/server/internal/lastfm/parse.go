package lastfm

import (
	"encoding/json"

	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
)

// The provider nests its track list under a different key per method:
// tag.gettoptracks wraps it in "tracks", artist.gettoptracks in "toptracks".
// Each envelope gets its own parser rather than guessing at a common shape.

type trackPayload struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type tagTopTracksEnvelope struct {
	Tracks *struct {
		Track []trackPayload `json:"track"`
	} `json:"tracks"`
}

type artistTopTracksEnvelope struct {
	TopTracks *struct {
		Track []trackPayload `json:"track"`
	} `json:"toptracks"`
}

func parseTagTopTracks(body []byte) ([]Track, error) {
	envelope := tagTopTracksEnvelope{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, mark.Wrap(err, NoDataMark, "Tag top tracks response is not valid JSON")
	}

	if envelope.Tracks == nil {
		return nil, mark.Message(NoDataMark, "Tag top tracks response has no tracks key")
	}

	return normalizeTracks(envelope.Tracks.Track), nil
}

func parseArtistTopTracks(body []byte) ([]Track, error) {
	envelope := artistTopTracksEnvelope{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, mark.Wrap(err, NoDataMark, "Artist top tracks response is not valid JSON")
	}

	if envelope.TopTracks == nil {
		return nil, mark.Message(NoDataMark, "Artist top tracks response has no toptracks key")
	}

	return normalizeTracks(envelope.TopTracks.Track), nil
}

func normalizeTracks(payloads []trackPayload) []Track {
	tracks := []Track{}
	for _, payload := range payloads {
		tracks = append(tracks, Track{
			Title:    payload.Name,
			Artist:   payload.Artist.Name,
			Duration: payload.Duration,
		})
	}

	return tracks
}
