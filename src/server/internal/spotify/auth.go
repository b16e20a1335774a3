package spotify

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/heartsync/heartsync-be/src/shared/config"
	"golang.org/x/oauth2"
)

const authScope = "user-read-private user-read-email playlist-modify-public playlist-modify-private"

// Authenticator runs the provider's token dance: the initial redirect, the
// authorization_code exchange, and refresh_token grants. Token storage is the
// Credential Session's job, not this type's.
type Authenticator struct {
	oauthConfig *oauth2.Config
}

func NewAuthenticator(cfg config.Spotify) Authenticator {
	return Authenticator{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
	}
}

// AuthCodeURL returns the provider login URL the user should be sent to.
func (a Authenticator) AuthCodeURL(state string) string {
	return a.oauthConfig.AuthCodeURL(state,
		oauth2.SetAuthURLParam("scope", authScope),
		oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Exchange trades an authorization code for a fresh token pair.
func (a Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, errors.New("No authorization code provided")
	}

	authToken, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to exchange authorization code for a token")
	}

	return authToken, nil
}

// Refresh performs a refresh_token grant and returns the new access token.
func (a Authenticator) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, errors.New("No refresh token held to refresh with")
	}

	source := a.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	authToken, err := source.Token()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to refresh the provider token")
	}

	return authToken, nil
}
