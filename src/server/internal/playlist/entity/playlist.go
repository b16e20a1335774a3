package playlistentity

import (
	"context"
	"time"
)

// Record is the locally persisted representation of a user's playlist.
// TrackURIs preserves the order the identifiers were submitted to the
// catalog provider so that both copies stay representationally consistent.
type Record struct {
	OwnerID     string    `json:"owner_id"`
	PlaylistID  string    `json:"playlist_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TrackURIs   []string  `json:"track_uris"`
	SavedAt     time.Time `json:"saved_at"`
}

type Store interface {
	CreatePlaylist(ctx context.Context, record Record) error
	GetPlaylist(ctx context.Context, ownerID string, playlistID string) (Record, error)
	GetPlaylistsForUser(ctx context.Context, ownerID string) ([]Record, error)
	ReplaceTrackURIs(ctx context.Context, ownerID string, playlistID string, trackURIs []string) error
	DeletePlaylist(ctx context.Context, ownerID string, playlistID string) error
}
