package userentity

import "time"

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Description   string    `json:"description"`
	ProfilePicKey string    `json:"profile_pic_key,omitempty"`
	Following     []string  `json:"following"`
	Followers     []string  `json:"followers"`
	CreatedAt     time.Time `json:"created_at"`

	// never serialized - only the storage and login flows see this
	PasswordHash string `json:"-"`
}
