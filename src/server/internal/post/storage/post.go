package poststorage

import (
	"time"

	"github.com/heartsync/heartsync-be/src/server/internal/post/entity"
)

const (
	ownerKey = "owner"
	idKey    = "id"
)

type dbPost struct {
	OwnerID   string    `dynamo:"owner,hash"`
	ID        string    `dynamo:"id,range"`
	Content   string    `dynamo:"content"`
	CreatedAt time.Time `dynamo:"created_at"`
}

func fromEntity(post postentity.Post) dbPost {
	return dbPost{
		OwnerID:   post.OwnerID,
		ID:        post.ID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}
}

func (d dbPost) toEntity() postentity.Post {
	return postentity.Post{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}
