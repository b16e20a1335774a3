package spotifygateway

import (
	"net/http"

	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/lib/request"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/spotify/usecase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type Gateway struct {
	usecase *spotifyusecase.Usecase
}

func NewGateway(usecase *spotifyusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

type createPlaylistRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Public        bool   `json:"public"`
	Collaborative bool   `json:"collaborative"`
}

type createdPlaylistResponse struct {
	PlaylistID string `json:"playlist_id"`
}

// Login redirects the browser to the provider's consent page.
func (g Gateway) Login(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, g.usecase.LoginURL())
}

func (g Gateway) Callback(c echo.Context) error {
	ctx := request.Context(c)

	state := c.QueryParam("state")
	code := c.QueryParam("code")

	apiErr := g.usecase.HandleCallback(ctx, state, code)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.NoContent(http.StatusOK)
}

func (g Gateway) RefreshSession(c echo.Context) error {
	ctx := request.Context(c)

	apiErr := g.usecase.RefreshSession(ctx)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.NoContent(http.StatusOK)
}

func (g Gateway) GetProviderPlaylists(c echo.Context) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	playlists, apiErr := g.usecase.GetProviderPlaylists(ctx, authHeader)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, playlists)
}

func (g Gateway) CreatePlaylist(c echo.Context) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	newPlaylist := createPlaylistRequest{}
	err := c.Bind(&newPlaylist)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to playlist object")
		apiErr := api.CommitError(err,
			playlisterrors.BadPlaylistDataCode,
			"The playlist data received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	playlistID, apiErr := g.usecase.CreatePlaylist(ctx, authHeader, spotifyusecase.NewPlaylist{
		Name:          newPlaylist.Name,
		Description:   newPlaylist.Description,
		Public:        newPlaylist.Public,
		Collaborative: newPlaylist.Collaborative,
	})
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, createdPlaylistResponse{PlaylistID: playlistID})
}
