package testing

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	. "github.com/onsi/gomega"
	"github.com/heartsync/heartsync-be/src/shared/lib/dynamo"
)

const (
	UsersTable     = "Users"
	PostsTable     = "Posts"
	PlaylistsTable = "Playlists"
)

type user struct {
	ID       string `dynamo:"id,hash"`
	Username string `dynamo:"username" index:"username-index,hash"`
}

type post struct {
	Owner string `dynamo:"owner,hash"`
	ID    string `dynamo:"id,range"`
}

type playlist struct {
	Owner      string `dynamo:"owner,hash"`
	PlaylistID string `dynamo:"playlist_id,range"`
}

func MakeTestDB(testRegion string) dynamolib.DynamoDBWrapper {
	dbSession := session.Must(session.NewSession())

	config := aws.NewConfig().
		WithCredentials(credentials.NewStaticCredentials(DynamoAccessKeyID, DynamoSecretAccessKey, "")).
		WithEndpoint(DynamoDBHost).
		WithRegion(testRegion)

	db := dynamo.New(dbSession, config)
	return dynamolib.NewDynamoDBWrapper(db)
}

func ResetDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
	CreateAllTables(db)
	EnsureUsers(db)
}

func BeforeSuiteDB(testRegion string) dynamolib.DynamoDBWrapper {
	db := MakeTestDB(testRegion)
	DeleteAllTables(db)
	return db
}

func AfterSuiteDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
}

func CreateAllTables(db dynamolib.DynamoDBWrapper) {
	err := db.CreateTable(UsersTable, user{}).Run()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	err = db.CreateTable(PostsTable, post{}).Run()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	err = db.CreateTable(PlaylistsTable, playlist{}).Run()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}

func DeleteAllTables(db dynamolib.DynamoDBWrapper) {
	tableResults := db.ListTables()
	tableNames := ExpectSuccess(tableResults.All())

	for _, tableName := range tableNames {
		err := db.Table(tableName).DeleteTable().Run()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}
}
