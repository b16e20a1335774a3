package spotify

// Response types based on https://developer.spotify.com/documentation/web-api/reference/

// TrackMetadata is the descriptive form of a resolved track identifier.
type TrackMetadata struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	DurationMS int    `json:"duration_ms"`
}

// User is the catalog provider's view of the authorized account. Its ID is
// distinct from the internal user ID and only used for provider calls.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type PlaylistInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type artistPayload struct {
	Name string `json:"name"`
}

type albumPayload struct {
	Name string `json:"name"`
}

type trackPayload struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	URI        string          `json:"uri"`
	DurationMS int             `json:"duration_ms"`
	Artists    []artistPayload `json:"artists"`
	Album      albumPayload    `json:"album"`
}

func (t trackPayload) toMetadata() TrackMetadata {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}

	return TrackMetadata{
		ID:         t.ID,
		URI:        t.URI,
		Title:      t.Name,
		Artist:     artist,
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
	}
}

type searchEnvelope struct {
	Tracks *struct {
		Items []trackPayload `json:"items"`
	} `json:"tracks"`
}

type severalTracksEnvelope struct {
	Tracks []trackPayload `json:"tracks"`
}

type playlistsPageEnvelope struct {
	Items []PlaylistInfo `json:"items"`
}

type createdPlaylistEnvelope struct {
	ID string `json:"id"`
}
