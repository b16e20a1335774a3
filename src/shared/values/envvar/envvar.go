package envvar

import (
	"fmt"
	"os"
)

const (
	AWS_ACCESS_KEY_ID     = "AWS_ACCESS_KEY_ID"
	AWS_SECRET_ACCESS_KEY = "AWS_SECRET_ACCESS_KEY"
	PROFILE_PIC_BUCKET    = "PROFILE_PIC_BUCKET"
	SPOTIFY_CLIENT_ID     = "SPOTIFY_CLIENT_ID"
	SPOTIFY_CLIENT_SECRET = "SPOTIFY_CLIENT_SECRET"
	SPOTIFY_REDIRECT_URI  = "SPOTIFY_REDIRECT_URI"
	LASTFM_API_KEY        = "LASTFM_API_KEY"
	SESSION_TOKEN_SECRET  = "SESSION_TOKEN_SECRET"
	ALLOWED_FE_ORIGINS    = "ALLOWED_FE_ORIGINS"
)

func MustGet(key string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	if val == "" {
		panic(fmt.Sprintf("Env variable is empty for key %s", key))
	}

	return val
}
