package userstorage

import (
	"context"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
	"github.com/heartsync/heartsync-be/src/server/internal/user/entity"
	"github.com/heartsync/heartsync-be/src/shared/lib/dynamo"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
)

const (
	UsersTable = "Users"

	existingUserCondition = "attribute_exists(" + idKey + ")"
)

const (
	followingField = "following"
	followersField = "followers"
)

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) SetUser(ctx context.Context, user userentity.User) error {
	if user.ID == "" {
		err := errors.New("User ID is empty")
		return mark.Wrap(err, DefaultErrorMark, "No ID provided to store user")
	}

	err := d.dynamoDB.Table(UsersTable).Table.
		Put(fromEntity(user)).
		RunWithContext(ctx)

	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put user into DB")
	}

	return nil
}

func (d DB) GetUser(ctx context.Context, userID string) (userentity.User, error) {
	if userID == "" {
		err := errors.New("User ID is empty")
		return userentity.User{}, mark.Wrap(err, UserNotFoundMark, "No ID provided to fetch user")
	}

	value := dbUser{}
	err := d.dynamoDB.Table(UsersTable).
		Get(idKey, userID).
		Consistent(true).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case errors.Is(err, dynamo.ErrNotFound):
			return userentity.User{}, mark.Wrap(err, UserNotFoundMark, "User is not found")
		default:
			return userentity.User{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch user")
		}
	}

	return value.toEntity(), nil
}

func (d DB) GetUserByUsername(ctx context.Context, username string) (userentity.User, error) {
	if username == "" {
		err := errors.New("Username is empty")
		return userentity.User{}, mark.Wrap(err, UserNotFoundMark, "No username provided to fetch user")
	}

	value := dbUser{}
	err := d.dynamoDB.Table(UsersTable).
		Get(usernameKey, username).
		Index(usernameIndex).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case errors.Is(err, dynamo.ErrNotFound):
			return userentity.User{}, mark.Wrap(err, UserNotFoundMark, "User is not found for this username")
		default:
			return userentity.User{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch user by username")
		}
	}

	return value.toEntity(), nil
}

func (d DB) UpdateDescription(ctx context.Context, userID string, description string) error {
	err := d.dynamoDB.Table(UsersTable).Table.
		Update(idKey, userID).
		Set("description", description).
		If(existingUserCondition).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, UserNotFoundMark, "Cannot update description: user cannot be found")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to update the user's description")
	}

	return nil
}

func (d DB) SetProfilePicKey(ctx context.Context, userID string, key string) error {
	err := d.dynamoDB.Table(UsersTable).Table.
		Update(idKey, userID).
		Set("profile_pic_key", key).
		If(existingUserCondition).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, UserNotFoundMark, "Cannot set profile picture: user cannot be found")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to set the user's profile picture key")
	}

	return nil
}

// Follow records the relationship on both sides. The two updates aren't
// transactional - a failure between them leaves a one-sided follow that the
// next successful call repairs, since string set adds are idempotent.
func (d DB) Follow(ctx context.Context, followerID string, followeeID string) error {
	err := d.dynamoDB.Table(UsersTable).Table.
		Update(idKey, followerID).
		AddStringsToSet(followingField, followeeID).
		If(existingUserCondition).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, UserNotFoundMark, "Cannot follow: follower cannot be found")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to add to the follower's following set")
	}

	err = d.dynamoDB.Table(UsersTable).Table.
		Update(idKey, followeeID).
		AddStringsToSet(followersField, followerID).
		If(existingUserCondition).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, UserNotFoundMark, "Cannot follow: followee cannot be found")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to add to the followee's followers set")
	}

	return nil
}

func (d DB) Unfollow(ctx context.Context, followerID string, followeeID string) error {
	err := d.dynamoDB.Table(UsersTable).Table.
		Update(idKey, followerID).
		DeleteStringsFromSet(followingField, followeeID).
		If(existingUserCondition).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, UserNotFoundMark, "Cannot unfollow: follower cannot be found")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to remove from the follower's following set")
	}

	err = d.dynamoDB.Table(UsersTable).Table.
		Update(idKey, followeeID).
		DeleteStringsFromSet(followersField, followerID).
		If(existingUserCondition).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, UserNotFoundMark, "Cannot unfollow: followee cannot be found")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to remove from the followee's followers set")
	}

	return nil
}

func (d DB) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		err := errors.New("User ID is empty")
		return mark.Wrap(err, UserNotFoundMark, "No ID provided to delete user")
	}

	delExpr := d.dynamoDB.Table(UsersTable).
		Delete(idKey, userID).
		If(existingUserCondition)

	if err := delExpr.RunWithContext(ctx); err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, UserNotFoundMark, "Failed to find user to delete")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to delete user")
	}

	return nil
}

func conditionalCheckFailed(err error) bool {
	_, ok := err.(*dynamodb.ConditionalCheckFailedException)
	return ok
}
