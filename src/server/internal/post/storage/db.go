package poststorage

import (
	"context"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
	"github.com/heartsync/heartsync-be/src/server/internal/post/entity"
	"github.com/heartsync/heartsync-be/src/shared/lib/dynamo"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
)

const (
	PostsTable = "Posts"

	existingPostCondition = "attribute_exists(" + idKey + ")"
)

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) CreatePost(ctx context.Context, post postentity.Post) error {
	if post.ID == "" || post.OwnerID == "" {
		err := errors.New("Post ID or owner ID is empty")
		return mark.Wrap(err, DefaultErrorMark, "Missing keys to store post")
	}

	err := d.dynamoDB.Table(PostsTable).Table.
		Put(fromEntity(post)).
		RunWithContext(ctx)

	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put post into DB")
	}

	return nil
}

func (d DB) GetPost(ctx context.Context, ownerID string, postID string) (postentity.Post, error) {
	value := dbPost{}
	err := d.dynamoDB.Table(PostsTable).
		Get(ownerKey, ownerID).
		Range(idKey, dynamo.Equal, postID).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case errors.Is(err, dynamo.ErrNotFound):
			return postentity.Post{}, mark.Wrap(err, PostNotFoundMark, "Post is not found")
		default:
			return postentity.Post{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch post")
		}
	}

	return value.toEntity(), nil
}

func (d DB) GetPostsForUser(ctx context.Context, ownerID string) ([]postentity.Post, error) {
	values := []dbPost{}
	err := d.dynamoDB.Table(PostsTable).
		Get(ownerKey, ownerID).
		AllWithContext(ctx, &values)

	if err != nil {
		return nil, mark.Wrap(err, DefaultErrorMark, "Failed to fetch posts for user")
	}

	posts := []postentity.Post{}
	for _, value := range values {
		posts = append(posts, value.toEntity())
	}

	return posts, nil
}

func (d DB) DeletePost(ctx context.Context, ownerID string, postID string) error {
	delExpr := d.dynamoDB.Table(PostsTable).
		Delete(ownerKey, ownerID).
		Range(idKey, postID).
		If(existingPostCondition)

	if err := delExpr.RunWithContext(ctx); err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, PostNotFoundMark, "Failed to find post to delete")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to delete post")
	}

	return nil
}

func conditionalCheckFailed(err error) bool {
	_, ok := err.(*dynamodb.ConditionalCheckFailedException)
	return ok
}
