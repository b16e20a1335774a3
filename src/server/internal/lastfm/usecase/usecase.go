package lastfmusecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm/errors"
)

type Usecase struct {
	client lastfm.Client
}

func NewUsecase(client lastfm.Client) Usecase {
	return Usecase{
		client: client,
	}
}

// TopTracks answers for exactly one facet: a genre or an artist, not both.
func (u Usecase) TopTracks(ctx context.Context, genre string, artist string) ([]lastfm.Track, *api.Error) {
	if (genre == "") == (artist == "") {
		err := errors.New("Expected exactly one of genre or artist")
		return nil, api.CommitError(err,
			lastfmerrors.BadFacetCode,
			"Provide either a genre or an artist to look up")
	}

	var tracks []lastfm.Track
	var err error

	if genre != "" {
		tracks, err = u.client.TopTracksByGenre(ctx, genre)
	} else {
		tracks, err = u.client.TopTracksByArtist(ctx, artist)
	}

	if err != nil {
		switch {
		case markers.Is(err, lastfm.NoDataMark):
			return nil, api.CommitError(err,
				lastfmerrors.NoTracksCode,
				"No tracks were found for this genre or artist")

		default:
			return nil, api.CommitError(err,
				api.DefaultErrorCode,
				"Failed to fetch recommendations")
		}
	}

	return tracks, nil
}
