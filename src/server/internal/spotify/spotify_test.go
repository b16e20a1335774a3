package spotify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cockroachdb/errors/markers"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/entity"
	"github.com/heartsync/heartsync-be/src/server/internal/session"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify"
	"github.com/heartsync/heartsync-be/src/shared/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   []byte
}

// memoryPlaylistStore is just enough of the store for the client to record
// created playlists into.
type memoryPlaylistStore struct {
	Created []playlistentity.Record
}

func (m *memoryPlaylistStore) CreatePlaylist(ctx context.Context, record playlistentity.Record) error {
	m.Created = append(m.Created, record)
	return nil
}

func (m *memoryPlaylistStore) GetPlaylist(ctx context.Context, ownerID string, playlistID string) (playlistentity.Record, error) {
	return playlistentity.Record{}, nil
}

func (m *memoryPlaylistStore) GetPlaylistsForUser(ctx context.Context, ownerID string) ([]playlistentity.Record, error) {
	return nil, nil
}

func (m *memoryPlaylistStore) ReplaceTrackURIs(ctx context.Context, ownerID string, playlistID string, trackURIs []string) error {
	return nil
}

func (m *memoryPlaylistStore) DeletePlaylist(ctx context.Context, ownerID string, playlistID string) error {
	return nil
}

var _ = Describe("Catalog client", func() {
	var (
		server          *httptest.Server
		client          *spotify.Client
		providerSession *session.Session
		playlistStore   *memoryPlaylistStore
		responseStatus  int
		responseBody    string
		requests        []recordedRequest

		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		responseStatus = http.StatusOK
		responseBody = "{}"
		requests = nil

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())

			requests = append(requests, recordedRequest{
				Method: r.Method,
				Path:   r.URL.Path,
				Query:  r.URL.Query(),
				Auth:   r.Header.Get("Authorization"),
				Body:   body,
			})

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(responseStatus)
			_, _ = w.Write([]byte(responseBody))
		}))

		providerSession = session.New()
		providerSession.Set("access-token", "refresh-token", time.Now().Add(time.Hour))

		playlistStore = &memoryPlaylistStore{}

		client = spotify.NewClient(config.Spotify{
			APIBaseURL:   server.URL,
			SearchMarket: "US",
		}, providerSession, playlistStore, nil)
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Without a session", func() {
		BeforeEach(func() {
			providerSession = session.New()
			client = spotify.NewClient(config.Spotify{
				APIBaseURL:   server.URL,
				SearchMarket: "US",
			}, providerSession, playlistStore, nil)
		})

		It("fails before any network call", func() {
			_, err := client.ResolveTrackURI(ctx, "Iron Maiden", "Aces High")
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, session.NotAuthenticatedMark)).To(BeTrue())
			Expect(requests).To(BeEmpty())
		})
	})

	Describe("Resolving a track", func() {
		Describe("That the catalog has", func() {
			BeforeEach(func() {
				responseBody = `{
					"tracks": {
						"items": [
							{"id": "abc123", "uri": "spotify:track:abc123", "name": "Aces High"}
						]
					}
				}`
			})

			It("returns the first hit's URI", func() {
				uri, err := client.ResolveTrackURI(ctx, "Iron Maiden", "Aces High")
				Expect(err).NotTo(HaveOccurred())
				Expect(uri).To(Equal("spotify:track:abc123"))
			})

			It("searches with a fielded single-result query", func() {
				_, err := client.ResolveTrackURI(ctx, "Iron Maiden", "Aces High")
				Expect(err).NotTo(HaveOccurred())

				Expect(requests).To(HaveLen(1))
				Expect(requests[0].Path).To(Equal("/search"))
				Expect(requests[0].Auth).To(Equal("Bearer access-token"))

				query := requests[0].Query
				Expect(query.Get("q")).To(Equal(`track:"Aces High" artist:"Iron Maiden"`))
				Expect(query.Get("market")).To(Equal("US"))
				Expect(query.Get("limit")).To(Equal("1"))
			})
		})

		Describe("That the catalog doesn't have", func() {
			BeforeEach(func() {
				responseBody = `{"tracks": {"items": []}}`
			})

			It("returns an empty URI and no error", func() {
				uri, err := client.ResolveTrackURI(ctx, "Nobody", "No Song")
				Expect(err).NotTo(HaveOccurred())
				Expect(uri).To(BeEmpty())
			})
		})

		Describe("When the provider rejects the credentials", func() {
			BeforeEach(func() {
				responseStatus = http.StatusUnauthorized
			})

			It("marks the error as an authorization failure", func() {
				_, err := client.ResolveTrackURI(ctx, "Iron Maiden", "Aces High")
				Expect(err).To(HaveOccurred())
				Expect(markers.Is(err, spotify.AuthorizationMark)).To(BeTrue())
			})
		})

		Describe("When the provider rejects the request", func() {
			BeforeEach(func() {
				responseStatus = http.StatusBadRequest
			})

			It("marks the error as a bad request", func() {
				_, err := client.ResolveTrackURI(ctx, "Iron Maiden", "Aces High")
				Expect(err).To(HaveOccurred())
				Expect(markers.Is(err, spotify.BadRequestMark)).To(BeTrue())
			})
		})
	})

	Describe("Appending tracks", func() {
		It("submits the whole list in one call", func() {
			err := client.AddTracksToPlaylist(ctx, "playlist-id", []string{"spotify:track:a", "spotify:track:b"})
			Expect(err).NotTo(HaveOccurred())

			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Method).To(Equal("POST"))
			Expect(requests[0].Path).To(Equal("/playlists/playlist-id/tracks"))

			payload := map[string][]string{}
			Expect(json.Unmarshal(requests[0].Body, &payload)).To(Succeed())
			Expect(payload["uris"]).To(Equal([]string{"spotify:track:a", "spotify:track:b"}))
		})

		It("submits an empty list rather than skipping the call", func() {
			err := client.AddTracksToPlaylist(ctx, "playlist-id", nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(requests).To(HaveLen(1))

			payload := map[string][]string{}
			Expect(json.Unmarshal(requests[0].Body, &payload)).To(Succeed())
			Expect(payload["uris"]).NotTo(BeNil())
			Expect(payload["uris"]).To(BeEmpty())
		})
	})

	Describe("Batch track lookup", func() {
		BeforeEach(func() {
			responseBody = `{
				"tracks": [
					{
						"id": "abc123",
						"uri": "spotify:track:abc123",
						"name": "Aces High",
						"duration_ms": 276000,
						"artists": [{"name": "Iron Maiden"}],
						"album": {"name": "Powerslave"}
					}
				]
			}`
		})

		It("returns normalized metadata", func() {
			tracks, err := client.GetTracks(ctx, []string{"abc123"})
			Expect(err).NotTo(HaveOccurred())

			Expect(tracks).To(Equal([]spotify.TrackMetadata{
				{
					ID:         "abc123",
					URI:        "spotify:track:abc123",
					Title:      "Aces High",
					Artist:     "Iron Maiden",
					Album:      "Powerslave",
					DurationMS: 276000,
				},
			}))
		})

		It("rejects an oversized batch without a network call", func() {
			trackIDs := make([]string, spotify.MaxTrackBatchSize+1)
			for i := range trackIDs {
				trackIDs[i] = "id"
			}

			_, err := client.GetTracks(ctx, trackIDs)
			Expect(err).To(HaveOccurred())
			Expect(requests).To(BeEmpty())
		})

		It("short-circuits an empty batch", func() {
			tracks, err := client.GetTracks(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(tracks).To(BeEmpty())
			Expect(requests).To(BeEmpty())
		})
	})

	Describe("Creating a playlist", func() {
		BeforeEach(func() {
			responseBody = `{"id": "created-playlist-id"}`
		})

		It("creates remotely and records locally", func() {
			playlistID, err := client.CreatePlaylist(ctx, "provider-user", "Workout Mix", true, false, "pump up jams", "local-user")
			Expect(err).NotTo(HaveOccurred())
			Expect(playlistID).To(Equal("created-playlist-id"))

			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Path).To(Equal("/users/provider-user/playlists"))

			Expect(playlistStore.Created).To(HaveLen(1))
			Expect(playlistStore.Created[0].OwnerID).To(Equal("local-user"))
			Expect(playlistStore.Created[0].PlaylistID).To(Equal("created-playlist-id"))
			Expect(playlistStore.Created[0].Name).To(Equal("Workout Mix"))
			Expect(playlistStore.Created[0].TrackURIs).To(BeEmpty())
		})

		Describe("Without a session", func() {
			BeforeEach(func() {
				providerSession = session.New()
				client = spotify.NewClient(config.Spotify{
					APIBaseURL: server.URL,
				}, providerSession, playlistStore, nil)
			})

			It("fails before any network call", func() {
				_, err := client.CreatePlaylist(ctx, "provider-user", "Workout Mix", true, false, "", "local-user")
				Expect(err).To(HaveOccurred())
				Expect(markers.Is(err, session.NotAuthenticatedMark)).To(BeTrue())
				Expect(requests).To(BeEmpty())
				Expect(playlistStore.Created).To(BeEmpty())
			})
		})
	})

	Describe("Listing the session user's playlists", func() {
		It("returns an empty list when the page has no items", func() {
			responseBody = `{"items": null}`

			playlists, err := client.GetPlaylists(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(playlists).NotTo(BeNil())
			Expect(playlists).To(BeEmpty())
		})

		It("returns the page's playlists", func() {
			responseBody = `{"items": [{"id": "p1", "name": "Workout Mix", "public": true}]}`

			playlists, err := client.GetPlaylists(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(playlists).To(Equal([]spotify.PlaylistInfo{
				{ID: "p1", Name: "Workout Mix", Public: true},
			}))
		})
	})
})
