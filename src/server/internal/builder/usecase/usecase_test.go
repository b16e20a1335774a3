package builderusecase_test

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cockroachdb/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/bucket"
	"github.com/heartsync/heartsync-be/src/server/internal/builder/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/builder/usecase"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/entity"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/session"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify/errors"
	"github.com/heartsync/heartsync-be/src/server/token"
	"github.com/heartsync/heartsync-be/src/server/internal/user/storage"
	"github.com/heartsync/heartsync-be/src/server/internal/user/usecase"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
	testing2 "github.com/heartsync/heartsync-be/src/shared/testing"
)

const testPlaylistID = "test-playlist-id"

// identityRand makes the Fisher-Yates pass a no-op so order assertions hold
func identityRand(n int) int {
	return n - 1
}

func makeTracks(prefix string, count int) []lastfm.Track {
	tracks := []lastfm.Track{}
	for i := 0; i < count; i++ {
		tracks = append(tracks, lastfm.Track{
			Title:  fmt.Sprintf("%s song %d", prefix, i),
			Artist: fmt.Sprintf("%s artist", prefix),
		})
	}

	return tracks
}

var _ = Describe("Playlist population", func() {
	var (
		recommender     *dummyRecommender
		catalog         *dummyCatalog
		playlistStore   *dummyPlaylistStore
		providerSession *session.Session
		usecase         builderusecase.Usecase
		authHeader      string
		populationReq   builderusecase.PopulationRequest

		ctx context.Context
	)

	makeUsecase := func(randFn func(n int) int) builderusecase.Usecase {
		userDB := userstorage.NewDB(db)
		issuer := token.NewIssuer(testing2.SessionTokenSecret)
		userUsecase := userusecase.NewUsecase(userDB, issuer, bucket.UserBucket{})

		return builderusecase.NewUsecase(
			recommender,
			catalog,
			playlistStore,
			userUsecase,
			providerSession,
			randFn)
	}

	// registers every resolvable track's URI and returns them in encounter order
	registerURIs := func(tracks []lastfm.Track) []string {
		uris := []string{}
		for i, track := range tracks {
			uri := fmt.Sprintf("spotify:track:id%d", len(catalog.URIMap)+i)
			catalog.URIMap[trackKey(track.Artist, track.Title)] = uri
			uris = append(uris, uri)
		}

		return uris
	}

	BeforeEach(func() {
		ctx = context.Background()
		testing2.ResetDB(db)

		recommender = &dummyRecommender{}
		catalog = &dummyCatalog{
			URIMap:        map[string]string{},
			FailingTracks: map[string]bool{},
		}
		playlistStore = newDummyPlaylistStore()

		providerSession = session.New()
		providerSession.Set("access-token", "refresh-token", time.Now().Add(time.Hour))

		usecase = makeUsecase(identityRand)

		authHeader = "Bearer " + testing2.TokenForUser(testing2.PrimaryUser)

		err := playlistStore.CreatePlaylist(ctx, playlistentity.Record{
			OwnerID:    testing2.PrimaryUser.ID,
			PlaylistID: testPlaylistID,
			Name:       "Workout Mix",
			TrackURIs:  []string{"spotify:track:previous"},
		})
		Expect(err).NotTo(HaveOccurred())

		populationReq = builderusecase.PopulationRequest{
			PlaylistID: testPlaylistID,
			Genre:      "metal",
			Artist:     "Iron Maiden",
		}
	})

	Describe("Preconditions", func() {
		expectNothingHappened := func() {
			Expect(recommender.GenreCalls).To(BeZero())
			Expect(recommender.ArtistCalls).To(BeZero())
			Expect(catalog.ResolveCalls).To(BeZero())
			Expect(catalog.AddCalls).To(BeEmpty())
			Expect(playlistStore.ReplaceCalls).To(BeEmpty())
		}

		Describe("Missing playlist ID", func() {
			BeforeEach(func() {
				populationReq.PlaylistID = ""
			})

			It("fails without touching any provider", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(buildererrors.BadPopulationRequestCode))
				expectNothingHappened()
			})
		})

		Describe("No provider session", func() {
			BeforeEach(func() {
				providerSession = session.New()
				usecase = makeUsecase(identityRand)
			})

			It("fails without touching any provider", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(spotifyerrors.NotAuthenticatedCode))
				expectNothingHappened()
			})
		})

		Describe("Bad auth header", func() {
			It("fails without touching any provider", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, "Bearer garbage", populationReq)
				Expect(apiErr).NotTo(BeNil())
				expectNothingHappened()
			})
		})

		Describe("User not in the DB", func() {
			BeforeEach(func() {
				authHeader = "Bearer " + testing2.TokenForUser(testing2.NoAccountUser)
			})

			It("fails without touching any provider", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				expectNothingHappened()
			})
		})

		Describe("Unknown playlist", func() {
			BeforeEach(func() {
				populationReq.PlaylistID = "never-created"
			})

			It("fails without touching any provider", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(playlisterrors.PlaylistNotFoundCode))
				expectNothingHappened()
			})
		})

		Describe("No facets", func() {
			BeforeEach(func() {
				populationReq.Genre = ""
				populationReq.Artist = ""
			})

			It("fails without touching any provider", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(buildererrors.BadPopulationRequestCode))
				expectNothingHappened()
			})
		})
	})

	Describe("A full successful run", func() {
		var expectedURIs []string

		BeforeEach(func() {
			recommender.GenreTracks = makeTracks("genre", 50)
			recommender.ArtistTracks = makeTracks("artist", 50)

			expectedURIs = registerURIs(recommender.GenreTracks)
			expectedURIs = append(expectedURIs, registerURIs(recommender.ArtistTracks)...)
		})

		It("appends all resolved tracks in encounter order", func() {
			result, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
			Expect(apiErr).To(BeNil())

			Expect(result.TrackURIs).To(Equal(expectedURIs))
			Expect(result.Requested).To(Equal(100))
			Expect(result.Dropped).To(BeZero())

			Expect(catalog.AddCalls).To(HaveLen(1))
			Expect(catalog.AddCalls[0]).To(Equal(expectedURIs))
		})

		It("persists the appended list locally", func() {
			_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
			Expect(apiErr).To(BeNil())

			Expect(playlistStore.ReplaceCalls).To(HaveLen(1))
			Expect(playlistStore.ReplaceCalls[0]).To(Equal(expectedURIs))

			record, err := playlistStore.GetPlaylist(ctx, testing2.PrimaryUser.ID, testPlaylistID)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.TrackURIs).To(Equal(expectedURIs))
		})
	})

	Describe("Shuffling", func() {
		var expectedURIs []string

		BeforeEach(func() {
			recommender.GenreTracks = makeTracks("genre", 20)
			expectedURIs = registerURIs(recommender.GenreTracks)

			seeded := rand.New(rand.NewSource(42))
			usecase = makeUsecase(seeded.Intn)
		})

		It("returns a permutation of the resolved tracks", func() {
			result, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
			Expect(apiErr).To(BeNil())

			Expect(result.TrackURIs).To(HaveLen(len(expectedURIs)))
			Expect(result.TrackURIs).To(ConsistOf(expectedURIs))
		})
	})

	Describe("Misses and failed lookups", func() {
		BeforeEach(func() {
			recommender.GenreTracks = makeTracks("genre", 4)

			// track 0 and 2 resolve, track 1 misses, track 3 fails
			catalog.URIMap[trackKey("genre artist", "genre song 0")] = "spotify:track:zero"
			catalog.URIMap[trackKey("genre artist", "genre song 2")] = "spotify:track:two"
			catalog.FailingTracks[trackKey("genre artist", "genre song 3")] = true

			populationReq.Artist = ""
		})

		It("drops them and keeps the rest in order", func() {
			result, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
			Expect(apiErr).To(BeNil())

			Expect(result.TrackURIs).To(Equal([]string{"spotify:track:zero", "spotify:track:two"}))
			Expect(result.Requested).To(Equal(4))
			Expect(result.Dropped).To(Equal(2))
		})
	})

	Describe("Nothing resolves", func() {
		BeforeEach(func() {
			recommender.GenreTracks = makeTracks("genre", 10)
			populationReq.Artist = ""
		})

		It("still appends and persists an empty list", func() {
			result, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
			Expect(apiErr).To(BeNil())

			Expect(result.TrackURIs).To(BeEmpty())
			Expect(result.Requested).To(Equal(10))
			Expect(result.Dropped).To(Equal(10))

			Expect(catalog.AddCalls).To(HaveLen(1))
			Expect(catalog.AddCalls[0]).To(BeEmpty())

			Expect(playlistStore.ReplaceCalls).To(HaveLen(1))
			Expect(playlistStore.ReplaceCalls[0]).To(BeEmpty())
		})
	})

	Describe("Facet outcomes", func() {
		BeforeEach(func() {
			recommender.ArtistTracks = makeTracks("artist", 5)
			registerURIs(recommender.ArtistTracks)
		})

		Describe("A facet with no data", func() {
			BeforeEach(func() {
				recommender.GenreErr = mark.Message(lastfm.NoDataMark, "nothing for this tag")
			})

			It("contributes nothing and the run continues", func() {
				result, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).To(BeNil())

				Expect(result.Requested).To(Equal(5))
				Expect(result.TrackURIs).To(HaveLen(5))
			})
		})

		Describe("A facet whose request fails", func() {
			BeforeEach(func() {
				recommender.GenreErr = mark.Message(lastfm.RequestFailedMark, "the wire broke")
			})

			It("aborts the run before any catalog traffic", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(buildererrors.PopulationFailedCode))

				Expect(catalog.ResolveCalls).To(BeZero())
				Expect(catalog.AddCalls).To(BeEmpty())
			})
		})
	})

	Describe("Append failures", func() {
		BeforeEach(func() {
			recommender.GenreTracks = makeTracks("genre", 3)
			registerURIs(recommender.GenreTracks)
			populationReq.Artist = ""
		})

		Describe("The provider rejects the credentials", func() {
			BeforeEach(func() {
				catalog.AddErr = mark.Message(spotify.AuthorizationMark, "session expired mid-run")
			})

			It("fails with an auth error and doesn't persist", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(spotifyerrors.NotAuthenticatedCode))

				Expect(playlistStore.ReplaceCalls).To(BeEmpty())

				record, err := playlistStore.GetPlaylist(ctx, testing2.PrimaryUser.ID, testPlaylistID)
				Expect(err).NotTo(HaveOccurred())
				Expect(record.TrackURIs).To(Equal([]string{"spotify:track:previous"}))
			})
		})

		Describe("The append just fails", func() {
			BeforeEach(func() {
				catalog.AddErr = errors.New("remote mutation failed")
			})

			It("fails the run and doesn't persist", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(buildererrors.PopulationFailedCode))
				Expect(playlistStore.ReplaceCalls).To(BeEmpty())
			})
		})

		Describe("The local persist fails after a good append", func() {
			BeforeEach(func() {
				playlistStore.ReplaceErr = errors.New("DB fell over")
			})

			It("surfaces the failure", func() {
				_, apiErr := usecase.PopulatePlaylist(ctx, authHeader, populationReq)
				Expect(apiErr).NotTo(BeNil())
				Expect(apiErr.ErrorCode).To(Equal(api.DefaultErrorCode))
				Expect(catalog.AddCalls).To(HaveLen(1))
			})
		})
	})
})

var _ = Describe("Fetching a playlist", func() {
	var (
		recommender     *dummyRecommender
		catalog         *dummyCatalog
		playlistStore   *dummyPlaylistStore
		providerSession *session.Session
		usecase         builderusecase.Usecase
		authHeader      string

		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		testing2.ResetDB(db)

		recommender = &dummyRecommender{}
		catalog = &dummyCatalog{
			URIMap:        map[string]string{},
			FailingTracks: map[string]bool{},
		}
		playlistStore = newDummyPlaylistStore()
		providerSession = session.New()
		providerSession.Set("access-token", "refresh-token", time.Now().Add(time.Hour))

		userDB := userstorage.NewDB(db)
		issuer := token.NewIssuer(testing2.SessionTokenSecret)
		userUsecase := userusecase.NewUsecase(userDB, issuer, bucket.UserBucket{})

		usecase = builderusecase.NewUsecase(
			recommender,
			catalog,
			playlistStore,
			userUsecase,
			providerSession,
			identityRand)

		authHeader = "Bearer " + testing2.TokenForUser(testing2.PrimaryUser)
	})

	Describe("With many saved tracks", func() {
		BeforeEach(func() {
			trackURIs := []string{}
			for i := 0; i < 120; i++ {
				trackURIs = append(trackURIs, fmt.Sprintf("spotify:track:id%d", i))
			}

			err := playlistStore.CreatePlaylist(ctx, playlistentity.Record{
				OwnerID:    testing2.PrimaryUser.ID,
				PlaylistID: testPlaylistID,
				Name:       "Workout Mix",
				TrackURIs:  trackURIs,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("fetches metadata in batches no larger than the provider cap", func() {
			_, apiErr := usecase.GetPlaylist(ctx, authHeader, testPlaylistID)
			Expect(apiErr).To(BeNil())

			Expect(catalog.BatchSizes).To(Equal([]int{50, 50, 20}))
		})
	})

	Describe("For a playlist that doesn't exist", func() {
		It("fails with not found", func() {
			_, apiErr := usecase.GetPlaylist(ctx, authHeader, "never-created")
			Expect(apiErr).NotTo(BeNil())
			Expect(apiErr.ErrorCode).To(Equal(playlisterrors.PlaylistNotFoundCode))
		})
	})
})
