package config

type Lastfm struct {
	APIBaseURL string
	APIKey     string
}
