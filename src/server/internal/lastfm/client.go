package lastfm

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/apex/log"
	"github.com/cockroachdb/errors/domains"
	"github.com/heartsync/heartsync-be/src/shared/config"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
)

var (
	// NoDataMark: the provider answered but the expected key wasn't there.
	// This is "no data", not "something broke" - callers treat it as a zero
	// contribution and it isn't logged as a failure.
	NoDataMark = domains.New("no_data")

	// RequestFailedMark: the network call itself failed.
	RequestFailedMark = domains.New("request_failed")
)

type Client struct {
	config     config.Lastfm
	httpClient *http.Client
}

func NewClient(config config.Lastfm, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return Client{
		config:     config,
		httpClient: httpClient,
	}
}

// TopTracksByGenre fetches the provider's top tracks for a tag.
func (c Client) TopTracksByGenre(ctx context.Context, genre string) ([]Track, error) {
	if genre == "" {
		return nil, mark.Message(NoDataMark, "No genre provided")
	}

	body, err := c.get(ctx, url.Values{
		"method": []string{"tag.gettoptracks"},
		"tag":    []string{genre},
	})
	if err != nil {
		log.WithError(err).Error("Failed to fetch top tracks by genre")
		return nil, err
	}

	return parseTagTopTracks(body)
}

// TopTracksByArtist fetches the provider's top tracks for an artist.
func (c Client) TopTracksByArtist(ctx context.Context, artist string) ([]Track, error) {
	if artist == "" {
		return nil, mark.Message(NoDataMark, "No artist provided")
	}

	body, err := c.get(ctx, url.Values{
		"method": []string{"artist.gettoptracks"},
		"artist": []string{artist},
	})
	if err != nil {
		log.WithError(err).Error("Failed to fetch top tracks by artist")
		return nil, err
	}

	return parseArtistTopTracks(body)
}

func (c Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("api_key", c.config.APIKey)
	params.Set("format", "json")

	requestURL := c.config.APIBaseURL + "/?" + params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, mark.Wrap(err, RequestFailedMark, "Failed to create recommendation request")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, mark.Wrap(err, RequestFailedMark, "Recommendation request failed")
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, mark.Wrap(err, RequestFailedMark, "Failed to read recommendation response")
	}

	return body, nil
}
