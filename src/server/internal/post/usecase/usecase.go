package postusecase

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/google/uuid"
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
	"github.com/heartsync/heartsync-be/src/server/internal/post/entity"
	"github.com/heartsync/heartsync-be/src/server/internal/post/errors"
	"github.com/heartsync/heartsync-be/src/server/internal/post/storage"
	"github.com/heartsync/heartsync-be/src/server/internal/user/usecase"
)

const maxFeedLength = 50

type Usecase struct {
	db          poststorage.DB
	userUsecase userusecase.Usecase
}

func NewUsecase(db poststorage.DB, userUsecase userusecase.Usecase) Usecase {
	return Usecase{
		db:          db,
		userUsecase: userUsecase,
	}
}

func (u Usecase) CreatePost(ctx context.Context, authHeader string, content string) (postentity.Post, *api.Error) {
	claims, apiErr := u.userUsecase.VerifyUser(authHeader)
	if apiErr != nil {
		return postentity.Post{}, api.WrapError(apiErr, "Failed to validate auth header")
	}

	if content == "" {
		err := errors.New("Post content is empty")
		return postentity.Post{}, api.CommitError(err,
			posterrors.BadPostDataCode,
			"A post needs some content")
	}

	post := postentity.Post{
		ID:        uuid.New().String(),
		OwnerID:   claims.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.db.CreatePost(ctx, post); err != nil {
		return postentity.Post{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to save the new post")
	}

	return post, nil
}

func (u Usecase) GetPostsForUser(ctx context.Context, userID string) ([]postentity.Post, *api.Error) {
	if _, apiErr := u.userUsecase.GetUser(ctx, userID); apiErr != nil {
		return nil, api.WrapError(apiErr, "Failed to find the posts' owner")
	}

	posts, err := u.db.GetPostsForUser(ctx, userID)
	if err != nil {
		return nil, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to fetch this user's posts")
	}

	sortNewestFirst(posts)
	return posts, nil
}

// GetFeed collects the posts of everyone the caller follows, plus their own,
// and returns the newest maxFeedLength of them.
func (u Usecase) GetFeed(ctx context.Context, authHeader string) ([]postentity.Post, *api.Error) {
	claims, apiErr := u.userUsecase.VerifyUser(authHeader)
	if apiErr != nil {
		return nil, api.WrapError(apiErr, "Failed to validate auth header")
	}

	user, apiErr := u.userUsecase.GetUser(ctx, claims.UserID)
	if apiErr != nil {
		return nil, api.WrapError(apiErr, "Failed to fetch the caller's account")
	}

	authorIDs := append([]string{user.ID}, user.Following...)

	feed := []postentity.Post{}
	for _, authorID := range authorIDs {
		posts, err := u.db.GetPostsForUser(ctx, authorID)
		if err != nil {
			return nil, api.CommitError(err,
				api.DefaultErrorCode,
				"Failed to fetch posts for the feed")
		}

		feed = append(feed, posts...)
	}

	sortNewestFirst(feed)

	if len(feed) > maxFeedLength {
		feed = feed[:maxFeedLength]
	}

	return feed, nil
}

func (u Usecase) DeletePost(ctx context.Context, authHeader string, ownerID string, postID string) *api.Error {
	if apiErr := u.userUsecase.VerifyOwner(ctx, authHeader, ownerID); apiErr != nil {
		return api.WrapError(apiErr, "Failed to verify the post deletion")
	}

	if err := u.db.DeletePost(ctx, ownerID, postID); err != nil {
		switch {
		case markers.Is(err, poststorage.PostNotFoundMark):
			return api.CommitError(err,
				posterrors.PostNotFoundCode,
				"This post could not be found")

		default:
			return api.CommitError(err,
				api.DefaultErrorCode,
				"Failed to delete the post")
		}
	}

	return nil
}

func sortNewestFirst(posts []postentity.Post) {
	sort.SliceStable(posts, func(i int, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
