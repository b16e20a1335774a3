package main

import (
	"strings"

	"github.com/apex/log"
	"github.com/heartsync/heartsync-be/src/server/application"
	"github.com/heartsync/heartsync-be/src/shared/config"
	"github.com/heartsync/heartsync-be/src/shared/config/dev"
	"github.com/heartsync/heartsync-be/src/shared/config/prod"
	"github.com/heartsync/heartsync-be/src/shared/lib/env"
	"github.com/heartsync/heartsync-be/src/shared/values/envvar"
	"github.com/joho/godotenv"
)

func main() {
	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		commaSeparatedOrigins := envvar.MustGet(envvar.ALLOWED_FE_ORIGINS)
		allowedOrigins := strings.Split(commaSeparatedOrigins, ",")

		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			BucketConfig: config.Bucket{
				Region: prod.BucketRegion,
				Name:   envvar.MustGet(envvar.PROFILE_PIC_BUCKET),
			},
			SpotifyConfig:      spotifyConfig(prod.SpotifyConfig),
			LastfmConfig:       lastfmConfig(prod.LastfmConfig),
			AWSAccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
			AWSSecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
			SessionTokenSecret: envvar.MustGet(envvar.SESSION_TOKEN_SECRET),
			CORSAllowedOrigins: allowedOrigins,
			Port:               ":5000",
			Log:                true,
		}

	case env.Development:
		// secrets for local runs live in an untracked .env file
		if err := godotenv.Load(); err != nil {
			log.WithError(err).Warn("No .env file loaded")
		}

		appConfig = application.Config{
			DynamoConfig:       dev.DynamoConfig,
			BucketConfig:       dev.BucketConfig,
			SpotifyConfig:      spotifyConfig(dev.SpotifyConfig),
			LastfmConfig:       lastfmConfig(dev.LastfmConfig),
			AWSAccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
			AWSSecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
			SessionTokenSecret: envvar.MustGet(envvar.SESSION_TOKEN_SECRET),
			CORSAllowedOrigins: []string{"*"},
			Port:               ":5000",
			Log:                true,
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}

func spotifyConfig(base config.Spotify) config.Spotify {
	base.ClientID = envvar.MustGet(envvar.SPOTIFY_CLIENT_ID)
	base.ClientSecret = envvar.MustGet(envvar.SPOTIFY_CLIENT_SECRET)
	base.RedirectURI = envvar.MustGet(envvar.SPOTIFY_REDIRECT_URI)
	return base
}

func lastfmConfig(base config.Lastfm) config.Lastfm {
	base.APIKey = envvar.MustGet(envvar.LASTFM_API_KEY)
	return base
}
