package playliststorage

import "github.com/cockroachdb/errors/domains"

var (
	PlaylistNotFoundMark = domains.New("playlist_not_found")
	DefaultErrorMark     = domains.New("default_error")
)
