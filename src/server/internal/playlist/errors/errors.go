package playlisterrors

import (
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
)

const (
	PlaylistNotFoundCode = api.ErrorCode("playlist_not_found")
	BadPlaylistDataCode  = api.ErrorCode("bad_playlist_data")
)
