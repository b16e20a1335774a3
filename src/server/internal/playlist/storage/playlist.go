package playliststorage

import (
	"time"

	"github.com/heartsync/heartsync-be/src/server/internal/playlist/entity"
)

const (
	ownerKey     = "owner"
	playlistKey  = "playlist_id"
	trackURIsKey = "track_uris"
	savedAtKey   = "saved_at"
)

type dbPlaylist struct {
	Owner       string    `dynamo:"owner,hash"`
	PlaylistID  string    `dynamo:"playlist_id,range"`
	Name        string    `dynamo:"name"`
	Description string    `dynamo:"description"`
	TrackURIs   []string  `dynamo:"track_uris"`
	SavedAt     time.Time `dynamo:"saved_at"`
}

func fromRecord(record playlistentity.Record, savedAt time.Time) dbPlaylist {
	return dbPlaylist{
		Owner:       record.OwnerID,
		PlaylistID:  record.PlaylistID,
		Name:        record.Name,
		Description: record.Description,
		TrackURIs:   record.TrackURIs,
		SavedAt:     savedAt,
	}
}

func (d dbPlaylist) toRecord() playlistentity.Record {
	trackURIs := d.TrackURIs
	if trackURIs == nil {
		trackURIs = []string{}
	}

	return playlistentity.Record{
		OwnerID:     d.Owner,
		PlaylistID:  d.PlaylistID,
		Name:        d.Name,
		Description: d.Description,
		TrackURIs:   trackURIs,
		SavedAt:     d.SavedAt,
	}
}
