package spotifyusecase

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/google/uuid"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/session"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/user/usecase"
)

type NewPlaylist struct {
	Name          string
	Description   string
	Public        bool
	Collaborative bool
}

type Usecase struct {
	authenticator spotify.Authenticator
	client        *spotify.Client
	session       *session.Session
	userUsecase   userusecase.Usecase

	// guards pendingState across the redirect/callback pair
	mu           sync.Mutex
	pendingState string
}

func NewUsecase(
	authenticator spotify.Authenticator,
	client *spotify.Client,
	providerSession *session.Session,
	userUsecase userusecase.Usecase,
) *Usecase {
	return &Usecase{
		authenticator: authenticator,
		client:        client,
		session:       providerSession,
		userUsecase:   userUsecase,
	}
}

// LoginURL mints a fresh state nonce and returns the provider login URL
// carrying it. Only the most recent nonce is honoured by the callback.
func (u *Usecase) LoginURL() string {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.pendingState = uuid.New().String()
	return u.authenticator.AuthCodeURL(u.pendingState)
}

// HandleCallback finishes the authorization code flow and installs the token
// pair into the Credential Session.
func (u *Usecase) HandleCallback(ctx context.Context, state string, code string) *api.Error {
	u.mu.Lock()
	expectedState := u.pendingState
	u.pendingState = ""
	u.mu.Unlock()

	if state == "" || state != expectedState {
		err := errors.New("Callback state doesn't match the login redirect")
		return api.CommitError(err,
			spotifyerrors.TokenExchangeFailedCode,
			"The provider login could not be verified - please try again")
	}

	authToken, err := u.authenticator.Exchange(ctx, code)
	if err != nil {
		return api.CommitError(err,
			spotifyerrors.TokenExchangeFailedCode,
			"Failed to complete the provider login")
	}

	u.session.Set(authToken.AccessToken, authToken.RefreshToken, authToken.Expiry)
	return nil
}

// RefreshSession performs a refresh_token grant against the snapshot taken at
// entry. If another refresh landed first the new token is discarded - the
// session already holds a fresh one.
func (u *Usecase) RefreshSession(ctx context.Context) *api.Error {
	observed := u.session.Snapshot()

	if observed.RefreshToken == "" {
		err := errors.New("No refresh token held in the session")
		return api.CommitError(err,
			spotifyerrors.NotAuthenticatedCode,
			"There is no provider session to refresh - log in first")
	}

	authToken, err := u.authenticator.Refresh(ctx, observed.RefreshToken)
	if err != nil {
		return api.CommitError(err,
			spotifyerrors.TokenExchangeFailedCode,
			"Failed to refresh the provider session")
	}

	u.session.CompareAndSwap(observed, authToken.AccessToken, authToken.Expiry)
	return nil
}

func (u *Usecase) GetProviderPlaylists(ctx context.Context, authHeader string) ([]spotify.PlaylistInfo, *api.Error) {
	if _, apiErr := u.userUsecase.VerifyUser(authHeader); apiErr != nil {
		return nil, api.WrapError(apiErr, "Failed to validate auth header")
	}

	playlists, err := u.client.GetPlaylists(ctx)
	if err != nil {
		return nil, commitProviderError(err, "Failed to fetch playlists from the provider")
	}

	return playlists, nil
}

// CreatePlaylist creates the playlist on the provider account behind the
// current session and records it locally under the calling user.
func (u *Usecase) CreatePlaylist(ctx context.Context, authHeader string, newPlaylist NewPlaylist) (string, *api.Error) {
	claims, apiErr := u.userUsecase.VerifyUser(authHeader)
	if apiErr != nil {
		return "", api.WrapError(apiErr, "Failed to validate auth header")
	}

	if newPlaylist.Name == "" {
		err := errors.New("Playlist name is empty")
		return "", api.CommitError(err,
			playlisterrors.BadPlaylistDataCode,
			"A playlist needs a name")
	}

	providerUser, err := u.client.GetUser(ctx)
	if err != nil {
		return "", commitProviderError(err, "Failed to look up the provider account")
	}

	playlistID, err := u.client.CreatePlaylist(ctx,
		providerUser.ID,
		newPlaylist.Name,
		newPlaylist.Public,
		newPlaylist.Collaborative,
		newPlaylist.Description,
		claims.UserID)
	if err != nil {
		return "", commitProviderError(err, "Failed to create the playlist")
	}

	return playlistID, nil
}

func commitProviderError(err error, userMessage string) *api.Error {
	switch {
	case markers.Is(err, session.NotAuthenticatedMark) || markers.Is(err, spotify.AuthorizationMark):
		return api.CommitError(err,
			spotifyerrors.NotAuthenticatedCode,
			"The music provider session is missing or expired - log in again")

	default:
		return api.CommitError(err, spotifyerrors.ProviderRequestFailedCode, userMessage)
	}
}
