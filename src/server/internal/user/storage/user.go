package userstorage

import (
	"time"

	"github.com/heartsync/heartsync-be/src/server/internal/user/entity"
)

const (
	idKey       = "id"
	usernameKey = "username"

	usernameIndex = "username-index"
)

type dbUser struct {
	ID            string    `dynamo:"id,hash"`
	Username      string    `dynamo:"username" index:"username-index,hash"`
	PasswordHash  string    `dynamo:"password_hash"`
	Email         string    `dynamo:"email"`
	Description   string    `dynamo:"description"`
	ProfilePicKey string    `dynamo:"profile_pic_key"`
	Following     []string  `dynamo:"following,set,omitempty"`
	Followers     []string  `dynamo:"followers,set,omitempty"`
	CreatedAt     time.Time `dynamo:"created_at"`
}

func fromEntity(user userentity.User) dbUser {
	return dbUser{
		ID:            user.ID,
		Username:      user.Username,
		PasswordHash:  user.PasswordHash,
		Email:         user.Email,
		Description:   user.Description,
		ProfilePicKey: user.ProfilePicKey,
		Following:     user.Following,
		Followers:     user.Followers,
		CreatedAt:     user.CreatedAt,
	}
}

func (d dbUser) toEntity() userentity.User {
	following := d.Following
	if following == nil {
		following = []string{}
	}

	followers := d.Followers
	if followers == nil {
		followers = []string{}
	}

	return userentity.User{
		ID:            d.ID,
		Username:      d.Username,
		PasswordHash:  d.PasswordHash,
		Email:         d.Email,
		Description:   d.Description,
		ProfilePicKey: d.ProfilePicKey,
		Following:     following,
		Followers:     followers,
		CreatedAt:     d.CreatedAt,
	}
}
