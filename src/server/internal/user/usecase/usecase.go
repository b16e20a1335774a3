package userusecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/google/uuid"
	"github.com/heartsync/heartsync-be/src/server/internal/bucket"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/auth"
	"github.com/heartsync/heartsync-be/src/server/token"
	"github.com/heartsync/heartsync-be/src/server/internal/user/entity"
	"github.com/heartsync/heartsync-be/src/server/internal/user/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/user/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	bearerPrefix = "Bearer "

	profilePicKeyPrefix = "profile-pics/"
)

type NewUser struct {
	Username string
	Password string
	Email    string
}

type Usecase struct {
	db     userstorage.DB
	issuer token.Issuer
	bucket bucket.UserBucket
}

func NewUsecase(db userstorage.DB, issuer token.Issuer, bucket bucket.UserBucket) Usecase {
	return Usecase{
		db:     db,
		issuer: issuer,
		bucket: bucket,
	}
}

func (u Usecase) Register(ctx context.Context, newUser NewUser) (userentity.User, *api.Error) {
	if newUser.Username == "" || newUser.Password == "" {
		err := errors.New("Username or password is empty")
		return userentity.User{}, api.CommitError(err,
			usererrors.BadUserDataCode,
			"A username and password must both be provided")
	}

	_, err := u.db.GetUserByUsername(ctx, newUser.Username)
	switch {
	case err == nil:
		err = errors.New("Username is already taken")
		return userentity.User{}, api.CommitError(err,
			usererrors.ExistingUsernameCode,
			"This username is already taken")

	case markers.Is(err, userstorage.UserNotFoundMark):
		// fallthrough - this username is free

	default:
		return userentity.User{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to check whether this username is taken")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newUser.Password), bcrypt.DefaultCost)
	if err != nil {
		return userentity.User{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to process the provided password")
	}

	user := userentity.User{
		ID:           uuid.New().String(),
		Username:     newUser.Username,
		Email:        newUser.Email,
		PasswordHash: string(passwordHash),
		Following:    []string{},
		Followers:    []string{},
	}

	if err := u.db.SetUser(ctx, user); err != nil {
		return userentity.User{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to save the new user")
	}

	return user, nil
}

func (u Usecase) Login(ctx context.Context, username string, password string) (userentity.User, string, *api.Error) {
	user, err := u.db.GetUserByUsername(ctx, username)
	if err != nil {
		switch {
		case markers.Is(err, userstorage.UserNotFoundMark):
			return userentity.User{}, "", api.CommitError(err,
				auth.NoAccountCode,
				"An account could not be found for this username")

		default:
			return userentity.User{}, "", api.CommitError(err,
				api.DefaultErrorCode,
				"User information could not be retrieved")
		}
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return userentity.User{}, "", api.CommitError(err,
			auth.WrongCredentialsCode,
			"The provided password is incorrect")
	}

	sessionToken, err := u.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return userentity.User{}, "", api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to create a session for this login")
	}

	return user, sessionToken, nil
}

// VerifyUser resolves the auth header to the claims of a live session token.
// It does not hit the DB - callers that need the full user record follow up
// with GetUser.
func (u Usecase) VerifyUser(authHeader string) (token.Claims, *api.Error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		err := errors.New("Auth header doesn't have the bearer token prefix")
		return token.Claims{}, api.CommitError(err,
			auth.BadAuthorizationHeaderCode,
			"The authorization header is malformed")
	}

	sessionToken := strings.TrimPrefix(authHeader, bearerPrefix)

	claims, err := u.issuer.Verify(sessionToken)
	if err != nil {
		return token.Claims{}, api.CommitError(err,
			auth.BadSessionTokenCode,
			"The session token is invalid or expired - please log in again")
	}

	return claims, nil
}

func (u Usecase) VerifyOwner(ctx context.Context, authHeader string, ownerID string) *api.Error {
	claims, apiErr := u.VerifyUser(authHeader)
	if apiErr != nil {
		return api.WrapError(apiErr, "Failed to validate auth header")
	}

	if claims.UserID != ownerID {
		err := errors.New("Owner ID and session user ID don't match")
		return api.CommitError(err,
			auth.WrongOwnerCode,
			"The user requesting access doesn't match the owner")
	}

	if _, apiErr := u.GetUser(ctx, ownerID); apiErr != nil {
		return api.WrapError(apiErr, "Failed to find the owner's account")
	}

	return nil
}

func (u Usecase) GetUser(ctx context.Context, userID string) (userentity.User, *api.Error) {
	user, err := u.db.GetUser(ctx, userID)
	if err != nil {
		switch {
		case markers.Is(err, userstorage.UserNotFoundMark):
			return userentity.User{}, api.CommitError(err,
				usererrors.UserNotFoundCode,
				"This user could not be found")

		default:
			return userentity.User{}, api.CommitError(err,
				api.DefaultErrorCode,
				"User information could not be retrieved")
		}
	}

	return user, nil
}

func (u Usecase) UpdateDescription(ctx context.Context, authHeader string, userID string, description string) (userentity.User, *api.Error) {
	if apiErr := u.VerifyOwner(ctx, authHeader, userID); apiErr != nil {
		return userentity.User{}, api.WrapError(apiErr, "Failed to verify the description update")
	}

	if err := u.db.UpdateDescription(ctx, userID, description); err != nil {
		return userentity.User{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to update the user's description")
	}

	return u.GetUser(ctx, userID)
}

func (u Usecase) DeleteUser(ctx context.Context, authHeader string, userID string, password string) *api.Error {
	if apiErr := u.VerifyOwner(ctx, authHeader, userID); apiErr != nil {
		return api.WrapError(apiErr, "Failed to verify the account deletion")
	}

	user, apiErr := u.GetUser(ctx, userID)
	if apiErr != nil {
		return api.WrapError(apiErr, "Failed to fetch the user to delete")
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return api.CommitError(err,
			auth.WrongCredentialsCode,
			"The provided password is incorrect")
	}

	if user.ProfilePicKey != "" {
		if err := u.bucket.DeleteProfilePic(ctx, user.ProfilePicKey); err != nil {
			return api.CommitError(err,
				api.DefaultErrorCode,
				"Failed to remove the user's profile picture")
		}
	}

	if err := u.db.DeleteUser(ctx, userID); err != nil {
		return api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to delete the user")
	}

	return nil
}

func (u Usecase) Follow(ctx context.Context, authHeader string, followeeID string) *api.Error {
	claims, apiErr := u.VerifyUser(authHeader)
	if apiErr != nil {
		return api.WrapError(apiErr, "Failed to validate auth header")
	}

	if claims.UserID == followeeID {
		err := errors.New("User tried to follow themselves")
		return api.CommitError(err,
			usererrors.BadUserDataCode,
			"You can't follow yourself")
	}

	if _, apiErr := u.GetUser(ctx, followeeID); apiErr != nil {
		return api.WrapError(apiErr, "Failed to find the user to follow")
	}

	if err := u.db.Follow(ctx, claims.UserID, followeeID); err != nil {
		switch {
		case markers.Is(err, userstorage.UserNotFoundMark):
			return api.CommitError(err,
				usererrors.UserNotFoundCode,
				"One of the users in this follow could not be found")

		default:
			return api.CommitError(err,
				api.DefaultErrorCode,
				"Failed to record the follow")
		}
	}

	return nil
}

func (u Usecase) Unfollow(ctx context.Context, authHeader string, followeeID string) *api.Error {
	claims, apiErr := u.VerifyUser(authHeader)
	if apiErr != nil {
		return api.WrapError(apiErr, "Failed to validate auth header")
	}

	if err := u.db.Unfollow(ctx, claims.UserID, followeeID); err != nil {
		switch {
		case markers.Is(err, userstorage.UserNotFoundMark):
			return api.CommitError(err,
				usererrors.UserNotFoundCode,
				"One of the users in this unfollow could not be found")

		default:
			return api.CommitError(err,
				api.DefaultErrorCode,
				"Failed to record the unfollow")
		}
	}

	return nil
}

func (u Usecase) ProfilePicURL(ctx context.Context, userID string) (string, *api.Error) {
	user, apiErr := u.GetUser(ctx, userID)
	if apiErr != nil {
		return "", api.WrapError(apiErr, "Failed to fetch the user for the profile picture")
	}

	if user.ProfilePicKey == "" {
		err := errors.New("User has no profile picture")
		return "", api.CommitError(err,
			usererrors.UserNotFoundCode,
			"This user has no profile picture")
	}

	signedURL, err := u.bucket.GetProfilePicURL(user.ProfilePicKey)
	if err != nil {
		return "", api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to create a link for the profile picture")
	}

	return signedURL, nil
}

// ProfilePicUploadURL records the object key up front. The client uploads
// straight to the bucket afterwards, so a failed upload just leaves a key
// pointing at a missing object until the next successful upload.
func (u Usecase) ProfilePicUploadURL(ctx context.Context, authHeader string, userID string) (string, *api.Error) {
	if apiErr := u.VerifyOwner(ctx, authHeader, userID); apiErr != nil {
		return "", api.WrapError(apiErr, "Failed to verify the profile picture upload")
	}

	key := profilePicKeyPrefix + userID + ".jpg"

	if err := u.db.SetProfilePicKey(ctx, userID, key); err != nil {
		return "", api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to record the profile picture for this user")
	}

	signedURL, err := u.bucket.PutProfilePicURL(key)
	if err != nil {
		return "", api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to create an upload link for the profile picture")
	}

	return signedURL, nil
}
