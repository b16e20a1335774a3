package buildergateway

import (
	"net/http"

	"github.com/heartsync/heartsync-be/src/server/internal/builder/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/builder/usecase"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/lib/request"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type Gateway struct {
	usecase builderusecase.Usecase
}

func NewGateway(usecase builderusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

type populationRequest struct {
	PlaylistID string `json:"playlist_id"`
	Genre      string `json:"genre"`
	Artist     string `json:"artist"`
}

func (g Gateway) PopulatePlaylist(c echo.Context) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	population := populationRequest{}
	err := c.Bind(&population)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to population object")
		apiErr := api.CommitError(err,
			buildererrors.BadPopulationRequestCode,
			"The population request received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	result, apiErr := g.usecase.PopulatePlaylist(ctx, authHeader, builderusecase.PopulationRequest{
		PlaylistID: population.PlaylistID,
		Genre:      population.Genre,
		Artist:     population.Artist,
	})
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, result)
}

func (g Gateway) GetPlaylist(c echo.Context, playlistID string) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	playlist, apiErr := g.usecase.GetPlaylist(ctx, authHeader, playlistID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, playlist)
}

func (g Gateway) GetPlaylistsForUser(c echo.Context) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	playlists, apiErr := g.usecase.GetPlaylistsForUser(ctx, authHeader)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, playlists)
}
