package lastfmerrors

import (
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
)

const (
	NoTracksCode = api.ErrorCode("no_tracks_found")
	BadFacetCode = api.ErrorCode("bad_facet")
)
