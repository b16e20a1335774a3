package lastfmgateway

import (
	"net/http"

	"github.com/heartsync/heartsync-be/src/server/internal/errors/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/lastfm/usecase"
	"github.com/heartsync/heartsync-be/src/server/internal/lib/request"
	"github.com/labstack/echo/v4"
)

type Gateway struct {
	usecase lastfmusecase.Usecase
}

func NewGateway(usecase lastfmusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) GetTopTracks(c echo.Context) error {
	ctx := request.Context(c)

	genre := c.QueryParam("genre")
	artist := c.QueryParam("artist")

	tracks, apiErr := g.usecase.TopTracks(ctx, genre, artist)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, tracks)
}
