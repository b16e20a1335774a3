package dev

import "github.com/heartsync/heartsync-be/src/shared/config"

// DynamoDB
const (
	DynamoAccessKeyID     = "local"
	DynamoSecretAccessKey = "local"
	DynamoDBHost          = "http://localhost:8000"
	DynamoDBRegion        = "localhost"
)

var DynamoConfig = config.LocalDynamo{
	AccessKeyID:     DynamoAccessKeyID,
	SecretAccessKey: DynamoSecretAccessKey,
	Region:          DynamoDBRegion,
	Host:            DynamoDBHost,
}

// Spotify
var SpotifyConfig = config.Spotify{
	AuthURL:      "https://accounts.spotify.com/authorize",
	TokenURL:     "https://accounts.spotify.com/api/token",
	APIBaseURL:   "https://api.spotify.com/v1",
	SearchMarket: "US",
}

// Last.fm
var LastfmConfig = config.Lastfm{
	APIBaseURL: "https://ws.audioscrobbler.com/2.0",
}

// S3
var BucketConfig = config.Bucket{
	Region: "us-east-1",
	Name:   "heart-sync-images-dev",
}
