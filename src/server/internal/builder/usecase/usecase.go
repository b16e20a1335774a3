package builderusecase

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/heartsync/heartsync-be/src/server/internal/builder/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/entity"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/storage"
	"github.com/heartsync/heartsync-be/src/server/internal/session"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/user/usecase"
)

// resolveWorkers bounds how many track searches run against the catalog
// provider at once.
const resolveWorkers = 4

// Recommender produces candidate tracks for a taste facet.
type Recommender interface {
	TopTracksByGenre(ctx context.Context, genre string) ([]lastfm.Track, error)
	TopTracksByArtist(ctx context.Context, artist string) ([]lastfm.Track, error)
}

// Catalog resolves candidate tracks against the provider's catalog and
// mutates the remote playlist.
type Catalog interface {
	ResolveTrackURI(ctx context.Context, artist string, title string) (string, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackURIs []string) error
	GetTracks(ctx context.Context, trackIDs []string) ([]spotify.TrackMetadata, error)
}

type PopulationRequest struct {
	PlaylistID string
	Genre      string
	Artist     string
}

// PopulationResult reports what the population run actually did. An empty
// TrackURIs with no error is a legitimate outcome - every candidate missed -
// and is distinct from a failed run.
type PopulationResult struct {
	TrackURIs []string `json:"track_uris"`
	Requested int      `json:"requested"`
	Dropped   int      `json:"dropped"`
}

// EnrichedPlaylist pairs the stored record with the provider's descriptive
// metadata for its tracks.
type EnrichedPlaylist struct {
	Playlist playlistentity.Record   `json:"playlist"`
	Tracks   []spotify.TrackMetadata `json:"tracks"`
}

type Usecase struct {
	recommender Recommender
	catalog     Catalog
	playlists   playlistentity.Store
	userUsecase userusecase.Usecase
	session     *session.Session
	randFn      func(n int) int
}

// NewUsecase wires the population pipeline. A nil randFn shuffles with the
// default math/rand source; tests pass a deterministic one.
func NewUsecase(
	recommender Recommender,
	catalog Catalog,
	playlists playlistentity.Store,
	userUsecase userusecase.Usecase,
	providerSession *session.Session,
	randFn func(n int) int,
) Usecase {
	if randFn == nil {
		randFn = rand.Intn
	}

	return Usecase{
		recommender: recommender,
		catalog:     catalog,
		playlists:   playlists,
		userUsecase: userUsecase,
		session:     providerSession,
		randFn:      randFn,
	}
}

// PopulatePlaylist runs the full pipeline: gather candidates for each facet,
// resolve them against the catalog, shuffle, append to the remote playlist,
// and only then persist the track list locally. All preconditions are checked
// before any provider traffic happens.
func (u Usecase) PopulatePlaylist(ctx context.Context, authHeader string, req PopulationRequest) (PopulationResult, *api.Error) {
	playlist, apiErr := u.checkPreconditions(ctx, authHeader, req)
	if apiErr != nil {
		return PopulationResult{}, apiErr
	}

	candidates, apiErr := u.gatherCandidates(ctx, req)
	if apiErr != nil {
		return PopulationResult{}, apiErr
	}

	trackURIs := u.resolveCandidates(ctx, candidates)
	u.shuffle(trackURIs)

	// the append happens unconditionally - an empty run still has to be a
	// confirmed remote mutation before the local record is touched
	if err := u.catalog.AddTracksToPlaylist(ctx, req.PlaylistID, trackURIs); err != nil {
		return PopulationResult{}, u.commitProviderError(err, "Failed to add the resolved tracks to the playlist")
	}

	if err := u.playlists.ReplaceTrackURIs(ctx, playlist.OwnerID, req.PlaylistID, trackURIs); err != nil {
		return PopulationResult{}, api.CommitError(err,
			api.DefaultErrorCode,
			"The playlist was populated but saving it locally failed")
	}

	return PopulationResult{
		TrackURIs: trackURIs,
		Requested: len(candidates),
		Dropped:   len(candidates) - len(trackURIs),
	}, nil
}

func (u Usecase) checkPreconditions(ctx context.Context, authHeader string, req PopulationRequest) (playlistentity.Record, *api.Error) {
	if req.PlaylistID == "" {
		err := errors.New("No playlist ID in the population request")
		log.Error("Population request rejected: missing playlist ID")
		return playlistentity.Record{}, api.CommitError(err,
			buildererrors.BadPopulationRequestCode,
			"A playlist must be chosen before it can be populated")
	}

	if !u.session.Authenticated() {
		err := errors.New("No provider session for the population request")
		log.Error("Population request rejected: no provider session")
		return playlistentity.Record{}, api.CommitError(err,
			spotifyerrors.NotAuthenticatedCode,
			"Log in with the music provider before populating a playlist")
	}

	claims, apiErr := u.userUsecase.VerifyUser(authHeader)
	if apiErr != nil {
		log.Error("Population request rejected: bad auth header")
		return playlistentity.Record{}, api.WrapError(apiErr, "Failed to validate auth header")
	}

	user, apiErr := u.userUsecase.GetUser(ctx, claims.UserID)
	if apiErr != nil {
		log.WithField("user_id", claims.UserID).
			Error("Population request rejected: user cannot be found")
		return playlistentity.Record{}, api.WrapError(apiErr, "Failed to find the requesting user")
	}

	playlist, err := u.playlists.GetPlaylist(ctx, user.ID, req.PlaylistID)
	if err != nil {
		log.WithField("playlist_id", req.PlaylistID).
			Error("Population request rejected: playlist cannot be found")

		switch {
		case markers.Is(err, playliststorage.PlaylistNotFoundMark):
			return playlistentity.Record{}, api.CommitError(err,
				playlisterrors.PlaylistNotFoundCode,
				"This playlist could not be found")

		default:
			return playlistentity.Record{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Playlist information could not be retrieved")
		}
	}

	if req.Genre == "" && req.Artist == "" {
		err := errors.New("No facets in the population request")
		log.Error("Population request rejected: no genre or artist")
		return playlistentity.Record{}, api.CommitError(err,
			buildererrors.BadPopulationRequestCode,
			"Pick at least a genre or an artist to populate from")
	}

	return playlist, nil
}

// gatherCandidates queries each requested facet in turn. A facet that has no
// data contributes nothing; a facet whose request fails aborts the run.
func (u Usecase) gatherCandidates(ctx context.Context, req PopulationRequest) ([]lastfm.Track, *api.Error) {
	candidates := []lastfm.Track{}

	if req.Genre != "" {
		tracks, err := u.recommender.TopTracksByGenre(ctx, req.Genre)
		switch {
		case err == nil:
			candidates = append(candidates, tracks...)

		case markers.Is(err, lastfm.NoDataMark):
			// zero contribution, keep going

		default:
			return nil, api.CommitError(err,
				buildererrors.PopulationFailedCode,
				"Failed to gather recommendations for this genre")
		}
	}

	if req.Artist != "" {
		tracks, err := u.recommender.TopTracksByArtist(ctx, req.Artist)
		switch {
		case err == nil:
			candidates = append(candidates, tracks...)

		case markers.Is(err, lastfm.NoDataMark):
			// zero contribution, keep going

		default:
			return nil, api.CommitError(err,
				buildererrors.PopulationFailedCode,
				"Failed to gather recommendations for this artist")
		}
	}

	return candidates, nil
}

// resolveCandidates maps candidates to provider URIs with a bounded worker
// pool. Results land in per-candidate slots so the output keeps the encounter
// order regardless of which worker finishes first. Misses and failed lookups
// are dropped; a failed lookup is logged, a miss is not.
func (u Usecase) resolveCandidates(ctx context.Context, candidates []lastfm.Track) []string {
	slots := make([]string, len(candidates))

	jobs := make(chan int)
	waitgroup := sync.WaitGroup{}
	waitgroup.Add(resolveWorkers)

	for worker := 0; worker < resolveWorkers; worker++ {
		go func() {
			defer waitgroup.Done()

			for i := range jobs {
				uri, err := u.catalog.ResolveTrackURI(ctx, candidates[i].Artist, candidates[i].Title)
				if err != nil {
					log.WithError(err).
						WithField("artist", candidates[i].Artist).
						WithField("title", candidates[i].Title).
						Error("Failed to resolve a recommended track")
					continue
				}

				slots[i] = uri
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	waitgroup.Wait()

	trackURIs := []string{}
	for _, uri := range slots {
		if uri != "" {
			trackURIs = append(trackURIs, uri)
		}
	}

	return trackURIs
}

// shuffle is an in-place Fisher-Yates over the resolved URIs.
func (u Usecase) shuffle(trackURIs []string) {
	for i := len(trackURIs) - 1; i > 0; i-- {
		j := u.randFn(i + 1)
		trackURIs[i], trackURIs[j] = trackURIs[j], trackURIs[i]
	}
}

// GetPlaylist returns the stored record enriched with the provider's metadata
// for each saved track, fetched in batches of spotify.MaxTrackBatchSize.
func (u Usecase) GetPlaylist(ctx context.Context, authHeader string, playlistID string) (EnrichedPlaylist, *api.Error) {
	claims, apiErr := u.userUsecase.VerifyUser(authHeader)
	if apiErr != nil {
		return EnrichedPlaylist{}, api.WrapError(apiErr, "Failed to validate auth header")
	}

	playlist, err := u.playlists.GetPlaylist(ctx, claims.UserID, playlistID)
	if err != nil {
		switch {
		case markers.Is(err, playliststorage.PlaylistNotFoundMark):
			return EnrichedPlaylist{}, api.CommitError(err,
				playlisterrors.PlaylistNotFoundCode,
				"This playlist could not be found")

		default:
			return EnrichedPlaylist{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Playlist information could not be retrieved")
		}
	}

	trackIDs := trackIDsFromURIs(playlist.TrackURIs)

	tracks := []spotify.TrackMetadata{}
	for start := 0; start < len(trackIDs); start += spotify.MaxTrackBatchSize {
		end := min(start+spotify.MaxTrackBatchSize, len(trackIDs))

		batch, err := u.catalog.GetTracks(ctx, trackIDs[start:end])
		if err != nil {
			return EnrichedPlaylist{}, u.commitProviderError(err, "Failed to fetch the playlist's track details")
		}

		tracks = append(tracks, batch...)
	}

	return EnrichedPlaylist{
		Playlist: playlist,
		Tracks:   tracks,
	}, nil
}

func (u Usecase) GetPlaylistsForUser(ctx context.Context, authHeader string) ([]playlistentity.Record, *api.Error) {
	claims, apiErr := u.userUsecase.VerifyUser(authHeader)
	if apiErr != nil {
		return nil, api.WrapError(apiErr, "Failed to validate auth header")
	}

	playlists, err := u.playlists.GetPlaylistsForUser(ctx, claims.UserID)
	if err != nil {
		return nil, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to fetch this user's playlists")
	}

	return playlists, nil
}

func (u Usecase) commitProviderError(err error, userMessage string) *api.Error {
	switch {
	case markers.Is(err, session.NotAuthenticatedMark) || markers.Is(err, spotify.AuthorizationMark):
		return api.CommitError(err,
			spotifyerrors.NotAuthenticatedCode,
			"The music provider session is missing or expired - log in again")

	default:
		return api.CommitError(err, buildererrors.PopulationFailedCode, userMessage)
	}
}

// track URIs look like <provider>:track:<id> - the batch lookup wants bare IDs
func trackIDsFromURIs(trackURIs []string) []string {
	trackIDs := []string{}
	for _, uri := range trackURIs {
		parts := strings.Split(uri, ":")
		trackIDs = append(trackIDs, parts[len(parts)-1])
	}

	return trackIDs
}
