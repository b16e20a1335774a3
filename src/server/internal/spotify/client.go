package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/entity"
	"github.com/heartsync/heartsync-be/src/server/internal/session"
	"github.com/heartsync/heartsync-be/src/shared/config"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
	"golang.org/x/time/rate"
)

var (
	AuthorizationMark = domains.New("provider_authorization")
	BadRequestMark    = domains.New("provider_bad_request")
	RequestFailedMark = domains.New("provider_request_failed")
)

// MaxTrackBatchSize is the most track IDs the provider's batch lookup
// endpoint accepts in one call.
const MaxTrackBatchSize = 50

// requests per second against the provider before callers start queueing
const requestsPerSecond = 10

// Client talks to the catalog provider. It reads the Credential Session for
// every call and never writes it; refreshing is the auth flow's concern.
type Client struct {
	config     config.Spotify
	session    *session.Session
	playlists  playlistentity.Store
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg config.Spotify, providerSession *session.Session, playlists playlistentity.Store, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		config:     cfg,
		session:    providerSession,
		playlists:  playlists,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// ResolveTrackURI resolves an (artist, title) pair to a provider URI via a
// single fuzzy search scoped to one market. A miss returns an empty URI and
// no error - it's permanent for this call, there is no retry.
func (c *Client) ResolveTrackURI(ctx context.Context, artist string, title string) (string, error) {
	params := url.Values{
		"q":      []string{fmt.Sprintf("track:%q artist:%q", title, artist)},
		"type":   []string{"track,artist"},
		"market": []string{c.config.SearchMarket},
		"limit":  []string{"1"},
		"offset": []string{"0"},
	}

	envelope := searchEnvelope{}
	err := c.do(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &envelope)
	if err != nil {
		return "", errors.Wrap(err, "Track search request failed")
	}

	if envelope.Tracks == nil || len(envelope.Tracks.Items) == 0 {
		return "", nil
	}

	return envelope.Tracks.Items[0].URI, nil
}

// AddTracksToPlaylist submits the full identifier list in one call. An empty
// list is a valid mutation and must succeed.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackURIs []string) error {
	if trackURIs == nil {
		trackURIs = []string{}
	}

	body := map[string]any{
		"uris": trackURIs,
	}

	err := c.do(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", body, nil)
	if err != nil {
		log.WithError(err).
			WithField("playlist_id", playlistID).
			Error("Failed to add tracks to the remote playlist")
		return errors.Wrap(err, "Failed to add tracks to the remote playlist")
	}

	return nil
}

// CreatePlaylist creates the remote playlist and records it locally under the
// internal user ID. Without an authenticated session it fails before any
// network call is made.
func (c *Client) CreatePlaylist(ctx context.Context, providerUserID string, name string, isPublic bool, isCollaborative bool, description string, localUserID string) (string, error) {
	if !c.session.Authenticated() {
		return "", mark.Message(session.NotAuthenticatedMark, "Cannot create a playlist without a provider session")
	}

	body := map[string]any{
		"name":          name,
		"public":        isPublic,
		"collaborative": isCollaborative,
		"description":   description,
	}

	envelope := createdPlaylistEnvelope{}
	err := c.do(ctx, http.MethodPost, "/users/"+providerUserID+"/playlists", body, &envelope)
	if err != nil {
		return "", errors.Wrap(err, "Failed to create the remote playlist")
	}

	if envelope.ID == "" {
		err := errors.New("Provider returned a created playlist without an ID")
		return "", mark.Wrap(err, RequestFailedMark, "Created playlist response is malformed")
	}

	record := playlistentity.Record{
		OwnerID:     localUserID,
		PlaylistID:  envelope.ID,
		Name:        name,
		Description: description,
		TrackURIs:   []string{},
	}

	if err := c.playlists.CreatePlaylist(ctx, record); err != nil {
		return "", errors.Wrap(err, "Failed to record the created playlist locally")
	}

	return envelope.ID, nil
}

// GetTracks fetches descriptive metadata for up to MaxTrackBatchSize
// identifiers in one call.
func (c *Client) GetTracks(ctx context.Context, trackIDs []string) ([]TrackMetadata, error) {
	if len(trackIDs) == 0 {
		return []TrackMetadata{}, nil
	}

	if len(trackIDs) > MaxTrackBatchSize {
		return nil, errors.Newf("Asked for %d tracks but the provider accepts at most %d per call", len(trackIDs), MaxTrackBatchSize)
	}

	params := url.Values{
		"ids": []string{strings.Join(trackIDs, ",")},
	}

	envelope := severalTracksEnvelope{}
	err := c.do(ctx, http.MethodGet, "/tracks?"+params.Encode(), nil, &envelope)
	if err != nil {
		return nil, errors.Wrap(err, "Batch track lookup failed")
	}

	metadata := []TrackMetadata{}
	for _, payload := range envelope.Tracks {
		metadata = append(metadata, payload.toMetadata())
	}

	return metadata, nil
}

// GetUser fetches the provider account behind the current session.
func (c *Client) GetUser(ctx context.Context) (User, error) {
	user := User{}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return User{}, errors.Wrap(err, "Failed to fetch the provider user")
	}

	return user, nil
}

// GetPlaylists fetches the provider playlists of the current session's user.
func (c *Client) GetPlaylists(ctx context.Context) ([]PlaylistInfo, error) {
	envelope := playlistsPageEnvelope{}
	if err := c.do(ctx, http.MethodGet, "/me/playlists", nil, &envelope); err != nil {
		return nil, errors.Wrap(err, "Failed to fetch the provider playlists")
	}

	if envelope.Items == nil {
		return []PlaylistInfo{}, nil
	}

	return envelope.Items, nil
}

func (c *Client) do(ctx context.Context, method string, endpoint string, body any, result any) error {
	bearerHeader, err := c.session.BearerHeader()
	if err != nil {
		return errors.Wrap(err, "No credentials to issue a provider call with")
	}

	var requestBody *bytes.Buffer
	if body != nil {
		requestBody = &bytes.Buffer{}
		if err := json.NewEncoder(requestBody).Encode(body); err != nil {
			return errors.Wrap(err, "Failed to encode the provider request body")
		}
	}

	requestURL := c.config.APIBaseURL + endpoint

	var request *http.Request
	if requestBody != nil {
		request, err = http.NewRequestWithContext(ctx, method, requestURL, requestBody)
	} else {
		request, err = http.NewRequestWithContext(ctx, method, requestURL, nil)
	}
	if err != nil {
		return mark.Wrap(err, RequestFailedMark, "Failed to create the provider request")
	}

	request.Header.Set("Authorization", bearerHeader)
	request.Header.Set("Content-Type", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return mark.Wrap(err, RequestFailedMark, "Cancelled while waiting on the provider rate limit")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return mark.Wrap(err, RequestFailedMark, "Provider request failed")
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		err := errors.Newf("Provider rejected the call with status %d", response.StatusCode)
		return mark.Wrap(err, AuthorizationMark, "The provider session is expired or invalid")

	case response.StatusCode >= 400 && response.StatusCode < 500:
		err := errors.Newf("Provider rejected the call with status %d", response.StatusCode)
		return mark.Wrap(err, BadRequestMark, "The provider rejected the request as invalid")

	case response.StatusCode < 200 || response.StatusCode >= 300:
		err := errors.Newf("Provider answered with status %d", response.StatusCode)
		return mark.Wrap(err, RequestFailedMark, "The provider call did not succeed")
	}

	if result != nil {
		if err := json.NewDecoder(response.Body).Decode(result); err != nil {
			return mark.Wrap(err, RequestFailedMark, "Failed to decode the provider response")
		}
	}

	return nil
}
