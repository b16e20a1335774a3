package testing

import (
	. "github.com/onsi/gomega"
	"github.com/heartsync/heartsync-be/src/server/token"
	dynamolib "github.com/heartsync/heartsync-be/src/shared/lib/dynamo"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string `dynamo:"id,hash"`
	Username     string `dynamo:"username" index:"username-index,hash"`
	PasswordHash string `dynamo:"password_hash"`
	Email        string `dynamo:"email"`

	// the plaintext counterpart of PasswordHash, for login flows
	Password string `dynamo:"-"`
}

var (
	// in the system, owner of playlists and posts
	PrimaryUser = makeUser(User{
		ID:       "primary-user-id",
		Username: "primary_user",
		Email:    "primary@heartsync.com",
		Password: "primary-password",
	})

	// in the system, but not owner of playlists and posts
	OtherUser = makeUser(User{
		ID:       "other-user-id",
		Username: "other_user",
		Email:    "other@heartsync.com",
		Password: "other-password",
	})

	// not saved to the DB
	NoAccountUser = User{
		ID:       "not-in-db-id",
		Username: "not_in_db_user",
		Email:    "adude@someoneelse.com",
		Password: "no-account-password",
	}
)

func makeUser(u User) User {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	u.PasswordHash = string(hash)
	return u
}

func TokenForUser(u User) string {
	issuer := token.NewIssuer(SessionTokenSecret)

	signed, err := issuer.Issue(u.ID, u.Username)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	return signed
}

func EnsureUsers(db dynamolib.DynamoDBWrapper) {
	EnsureUser(db, PrimaryUser)
	EnsureUser(db, OtherUser)
}

func EnsureUser(db dynamolib.DynamoDBWrapper, u User) {
	err := db.Table(UsersTable).Table.Put(u).Run()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}
