package gateway

import (
	"fmt"
	"github.com/heartsync/heartsync-be/src/server/api_error"
	"github.com/heartsync/heartsync-be/src/server/internal/builder/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/auth"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/post/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/user/errors"
	"github.com/labstack/echo/v4"
	"net/http"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:                       http.StatusInternalServerError,
	auth.WrongCredentialsCode:                  http.StatusUnauthorized,
	auth.NoAccountCode:                         http.StatusUnauthorized,
	auth.BadSessionTokenCode:                   http.StatusUnauthorized,
	auth.BadAuthorizationHeaderCode:            http.StatusBadRequest,
	auth.WrongOwnerCode:                        http.StatusForbidden,
	usererrors.UserNotFoundCode:                http.StatusNotFound,
	usererrors.ExistingUsernameCode:            http.StatusBadRequest,
	usererrors.BadUserDataCode:                 http.StatusBadRequest,
	posterrors.PostNotFoundCode:                http.StatusNotFound,
	posterrors.BadPostDataCode:                 http.StatusBadRequest,
	playlisterrors.PlaylistNotFoundCode:        http.StatusNotFound,
	playlisterrors.BadPlaylistDataCode:         http.StatusBadRequest,
	buildererrors.BadPopulationRequestCode:     http.StatusBadRequest,
	buildererrors.PopulationFailedCode:         http.StatusBadGateway,
	spotifyerrors.NotAuthenticatedCode:         http.StatusUnauthorized,
	spotifyerrors.ProviderRequestFailedCode:    http.StatusBadGateway,
	spotifyerrors.TokenExchangeFailedCode:      http.StatusBadGateway,
	lastfmerrors.NoTracksCode:                  http.StatusNotFound,
	lastfmerrors.BadFacetCode:                  http.StatusBadRequest,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:         string(err.ErrorCode),
		Msg:          err.UserMessage,
		ErrorDetails: err.Error(),
	})
}
