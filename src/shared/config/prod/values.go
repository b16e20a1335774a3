package prod

import "github.com/heartsync/heartsync-be/src/shared/config"

const (
	DynamoDBRegion = "us-east-1"
	BucketRegion   = "us-east-1"
	BucketName     = "heart-sync-images"
)

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
