package postgateway

import (
	"net/http"

	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/lib/request"
	"github.com/heartsync/heartsync-be/src/server/internal/post/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/post/usecase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type Gateway struct {
	usecase postusecase.Usecase
}

func NewGateway(usecase postusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

type createPostRequest struct {
	Content string `json:"content"`
}

func (g Gateway) CreatePost(c echo.Context) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	newPost := createPostRequest{}
	err := c.Bind(&newPost)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to post object")
		apiErr := api.CommitError(err,
			posterrors.BadPostDataCode,
			"The post data received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	post, apiErr := g.usecase.CreatePost(ctx, authHeader, newPost.Content)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, post)
}

func (g Gateway) GetPostsForUser(c echo.Context, userID string) error {
	ctx := request.Context(c)

	posts, apiErr := g.usecase.GetPostsForUser(ctx, userID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, posts)
}

func (g Gateway) GetFeed(c echo.Context) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	feed, apiErr := g.usecase.GetFeed(ctx, authHeader)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, feed)
}

func (g Gateway) DeletePost(c echo.Context, ownerID string, postID string) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	apiErr = g.usecase.DeletePost(ctx, authHeader, ownerID, postID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.NoContent(http.StatusOK)
}
