package usergateway

import (
	"net/http"

	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/gateway"
	"github.com/heartsync/heartsync-be/src/server/internal/lib/request"
	"github.com/heartsync/heartsync-be/src/server/internal/user/entity"
	"github.com/heartsync/heartsync-be/src/server/internal/user/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/user/usecase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type Gateway struct {
	usecase userusecase.Usecase
}

func NewGateway(usecase userusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  userentity.User `json:"user"`
	Token string          `json:"token"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

type signedURLResponse struct {
	URL string `json:"url"`
}

func (g Gateway) Register(c echo.Context) error {
	ctx := request.Context(c)

	registration := registerRequest{}
	err := c.Bind(&registration)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to registration object")
		apiErr := api.CommitError(err,
			usererrors.BadUserDataCode,
			"The registration data received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	user, apiErr := g.usecase.Register(ctx, userusecase.NewUser{
		Username: registration.Username,
		Password: registration.Password,
		Email:    registration.Email,
	})
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, user)
}

func (g Gateway) Login(c echo.Context) error {
	ctx := request.Context(c)

	login := loginRequest{}
	err := c.Bind(&login)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to login object")
		apiErr := api.CommitError(err,
			usererrors.BadUserDataCode,
			"The login data received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	user, sessionToken, apiErr := g.usecase.Login(ctx, login.Username, login.Password)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, loginResponse{
		User:  user,
		Token: sessionToken,
	})
}

func (g Gateway) GetUser(c echo.Context, userID string) error {
	ctx := request.Context(c)

	user, apiErr := g.usecase.GetUser(ctx, userID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, user)
}

func (g Gateway) UpdateDescription(c echo.Context, userID string) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	update := descriptionRequest{}
	err := c.Bind(&update)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to description object")
		apiErr := api.CommitError(err,
			usererrors.BadUserDataCode,
			"The description received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	user, apiErr := g.usecase.UpdateDescription(ctx, authHeader, userID, update.Description)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, user)
}

func (g Gateway) DeleteUser(c echo.Context, userID string) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	confirmation := deleteAccountRequest{}
	err := c.Bind(&confirmation)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to deletion object")
		apiErr := api.CommitError(err,
			usererrors.BadUserDataCode,
			"The deletion request received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	apiErr = g.usecase.DeleteUser(ctx, authHeader, userID, confirmation.Password)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.NoContent(http.StatusOK)
}

func (g Gateway) Follow(c echo.Context, followeeID string) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	apiErr = g.usecase.Follow(ctx, authHeader, followeeID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.NoContent(http.StatusOK)
}

func (g Gateway) Unfollow(c echo.Context, followeeID string) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	apiErr = g.usecase.Unfollow(ctx, authHeader, followeeID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.NoContent(http.StatusOK)
}

func (g Gateway) GetProfilePic(c echo.Context, userID string) error {
	ctx := request.Context(c)

	signedURL, apiErr := g.usecase.ProfilePicURL(ctx, userID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, signedURLResponse{URL: signedURL})
}

func (g Gateway) UploadProfilePic(c echo.Context, userID string) error {
	ctx := request.Context(c)

	authHeader, apiErr := request.AuthHeader(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	signedURL, apiErr := g.usecase.ProfilePicUploadURL(ctx, authHeader, userID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, signedURLResponse{URL: signedURL})
}
