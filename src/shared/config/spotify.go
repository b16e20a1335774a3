package config

type Spotify struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string

	// search results are limited to tracks playable in this market
	SearchMarket string
}
