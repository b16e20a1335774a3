package application

import (
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
	"github.com/heartsync/heartsync-be/src/server/internal/bucket"
	"github.com/heartsync/heartsync-be/src/server/internal/builder/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/builder/usecase"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm"
	lastfmgateway "github.com/heartsync/heartsync-be/src/server/internal/lastfm/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm/usecase"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/storage"
	"github.com/heartsync/heartsync-be/src/server/internal/post/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/post/storage"
	"github.com/heartsync/heartsync-be/src/server/internal/post/usecase"
	"github.com/heartsync/heartsync-be/src/server/internal/session"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify"
	spotifygateway "github.com/heartsync/heartsync-be/src/server/internal/spotify/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify/usecase"
	"github.com/heartsync/heartsync-be/src/server/token"
	"github.com/heartsync/heartsync-be/src/server/internal/user/gateway"
	userstorage "github.com/heartsync/heartsync-be/src/server/internal/user/storage"
	"github.com/heartsync/heartsync-be/src/server/internal/user/usecase"
	"github.com/heartsync/heartsync-be/src/shared/config"
	"github.com/heartsync/heartsync-be/src/shared/lib/dynamo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
)

type App struct {
	echo *echo.Echo
	port string
}

type Config struct {
	DynamoConfig       config.Dynamo
	BucketConfig       config.Bucket
	SpotifyConfig      config.Spotify
	LastfmConfig       config.Lastfm
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SessionTokenSecret string
	CORSAllowedOrigins []string
	Port               string
	Log                bool
}

func NewApp(config Config) App {
	e := echo.New()

	if config.Log {
		e.Use(middleware.Logger())
	}

	corsMiddleware := makeCorsMiddleware(config)

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		params := func() (string, echo.HandlerFunc, echo.MiddlewareFunc) {
			return path, handlerFunc, corsMiddleware
		}

		e.OPTIONS(params())

		switch method {
		case GET:
			e.GET(params())
		case POST:
			e.POST(params())
		case PUT:
			e.PUT(params())
		case DELETE:
			e.DELETE(params())
		default:
			panic("unhandled http method!")
		}
	}

	dynamoDB := makeDynamoDB(config.DynamoConfig)
	userBucket := makeUserBucket(config)
	providerSession := session.New()

	playlistDB := playliststorage.NewDB(dynamoDB)
	spotifyClient := spotify.NewClient(config.SpotifyConfig, providerSession, playlistDB, nil)
	lastfmClient := lastfm.NewClient(config.LastfmConfig, nil)

	userUsecase := makeUserUsecase(config, dynamoDB, userBucket)
	postUsecase := makePostUsecase(dynamoDB, userUsecase)
	spotifyUsecase := makeSpotifyUsecase(config, spotifyClient, providerSession, userUsecase)
	lastfmUsecase := lastfmusecase.NewUsecase(lastfmClient)
	builderUsecase := builderusecase.NewUsecase(
		lastfmClient,
		spotifyClient,
		playlistDB,
		userUsecase,
		providerSession,
		nil)

	userGateway := usergateway.NewGateway(userUsecase)
	postGateway := postgateway.NewGateway(postUsecase)
	spotifyGateway := spotifygateway.NewGateway(spotifyUsecase)
	lastfmGateway := lastfmgateway.NewGateway(lastfmUsecase)
	builderGateway := buildergateway.NewGateway(builderUsecase)

	// health check
	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// account routes
	handleRoute(POST, "/users", userGateway.Register)
	handleRoute(POST, "/login", userGateway.Login)
	handleRoute(GET, "/users/:id", func(c echo.Context) error {
		userID := c.Param("id")
		return userGateway.GetUser(c, userID)
	})
	handleRoute(PUT, "/users/:id/description", func(c echo.Context) error {
		userID := c.Param("id")
		return userGateway.UpdateDescription(c, userID)
	})
	handleRoute(DELETE, "/users/:id", func(c echo.Context) error {
		userID := c.Param("id")
		return userGateway.DeleteUser(c, userID)
	})
	handleRoute(POST, "/users/:id/follow", func(c echo.Context) error {
		followeeID := c.Param("id")
		return userGateway.Follow(c, followeeID)
	})
	handleRoute(DELETE, "/users/:id/follow", func(c echo.Context) error {
		followeeID := c.Param("id")
		return userGateway.Unfollow(c, followeeID)
	})
	handleRoute(GET, "/users/:id/profile-pic", func(c echo.Context) error {
		userID := c.Param("id")
		return userGateway.GetProfilePic(c, userID)
	})
	handleRoute(PUT, "/users/:id/profile-pic", func(c echo.Context) error {
		userID := c.Param("id")
		return userGateway.UploadProfilePic(c, userID)
	})

	// post routes
	handleRoute(POST, "/posts", postGateway.CreatePost)
	handleRoute(GET, "/feed", postGateway.GetFeed)
	handleRoute(GET, "/users/:id/posts", func(c echo.Context) error {
		userID := c.Param("id")
		return postGateway.GetPostsForUser(c, userID)
	})
	handleRoute(DELETE, "/users/:id/posts/:postId", func(c echo.Context) error {
		ownerID := c.Param("id")
		postID := c.Param("postId")
		return postGateway.DeletePost(c, ownerID, postID)
	})

	// provider auth + playlist routes
	handleRoute(GET, "/spotify/login", spotifyGateway.Login)
	handleRoute(GET, "/spotify/callback", spotifyGateway.Callback)
	handleRoute(POST, "/spotify/refresh", spotifyGateway.RefreshSession)
	handleRoute(GET, "/spotify/playlists", spotifyGateway.GetProviderPlaylists)
	handleRoute(POST, "/spotify/playlists", spotifyGateway.CreatePlaylist)

	// recommendation routes
	handleRoute(GET, "/last-fm/top-tracks", lastfmGateway.GetTopTracks)

	// playlist builder routes
	handleRoute(POST, "/playlist-builder", builderGateway.PopulatePlaylist)
	handleRoute(GET, "/playlist-builder", builderGateway.GetPlaylistsForUser)
	handleRoute(GET, "/playlist-builder/:playlistId", func(c echo.Context) error {
		playlistID := c.Param("playlistId")
		return builderGateway.GetPlaylist(c, playlistID)
	})

	return App{
		echo: e,
		port: config.Port,
	}
}

func (a *App) Start() error {
	err := a.echo.Start(a.port)
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

func (a *App) Stop() error {
	err := a.echo.Close()
	if err != nil {
		return errors.Wrap(err, "Failed to stop echo server")
	}

	return nil
}

func makeDynamoDB(dynamoConfig config.Dynamo) dynamolib.DynamoDBWrapper {
	dbSession := awssession.Must(awssession.NewSession())

	var dbConfig *aws.Config

	switch t := dynamoConfig.(type) {
	case config.ProdDynamo:
		dbConfig = aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials(
				t.AccessKeyID,
				t.SecretAccessKey,
				"",
			)).
			WithRegion(t.Region)

	case config.LocalDynamo:
		dbConfig = aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials(
				t.AccessKeyID,
				t.SecretAccessKey,
				"",
			)).
			WithRegion(t.Region).
			WithEndpoint(t.Host)

	default:
		panic("Unexpected dynamo config type")
	}

	db := dynamo.New(dbSession, dbConfig)
	return dynamolib.NewDynamoDBWrapper(db)
}

func makeUserBucket(config Config) bucket.UserBucket {
	bucketSession := awssession.Must(awssession.NewSession())

	bucketConfig := aws.NewConfig().
		WithCredentials(credentials.NewStaticCredentials(
			config.AWSAccessKeyID,
			config.AWSSecretAccessKey,
			"",
		)).
		WithRegion(config.BucketConfig.Region)

	return bucket.NewUserBucket(s3.New(bucketSession, bucketConfig), config.BucketConfig)
}

func makeUserUsecase(config Config, dynamoDB dynamolib.DynamoDBWrapper, userBucket bucket.UserBucket) userusecase.Usecase {
	userDB := userstorage.NewDB(dynamoDB)
	issuer := token.NewIssuer(config.SessionTokenSecret)
	return userusecase.NewUsecase(userDB, issuer, userBucket)
}

func makePostUsecase(dynamoDB dynamolib.DynamoDBWrapper, userUsecase userusecase.Usecase) postusecase.Usecase {
	postDB := poststorage.NewDB(dynamoDB)
	return postusecase.NewUsecase(postDB, userUsecase)
}

func makeSpotifyUsecase(
	config Config,
	spotifyClient *spotify.Client,
	providerSession *session.Session,
	userUsecase userusecase.Usecase,
) *spotifyusecase.Usecase {
	authenticator := spotify.NewAuthenticator(config.SpotifyConfig)
	return spotifyusecase.NewUsecase(authenticator, spotifyClient, providerSession, userUsecase)
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	})
}
