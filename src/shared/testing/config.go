package testing

import (
	"fmt"

	server_app "github.com/heartsync/heartsync-be/src/server/application"
	"github.com/heartsync/heartsync-be/src/shared/config"
	"github.com/heartsync/heartsync-be/src/shared/config/dev"
)

func ServerConfig(dbRegion string) server_app.Config {
	return server_app.Config{
		DynamoConfig:       DynamoConfig(dbRegion),
		BucketConfig:       dev.BucketConfig,
		SpotifyConfig:      dev.SpotifyConfig,
		LastfmConfig:       dev.LastfmConfig,
		AWSAccessKeyID:     DynamoAccessKeyID,
		AWSSecretAccessKey: DynamoSecretAccessKey,
		SessionTokenSecret: SessionTokenSecret,
		CORSAllowedOrigins: []string{"*"},
		Port:               ServerPort,
		Log:                false,
	}
}

// DynamoDB
const (
	DynamoAccessKeyID     = dev.DynamoAccessKeyID
	DynamoSecretAccessKey = dev.DynamoSecretAccessKey
	DynamoDBHost          = dev.DynamoDBHost
)

func DynamoConfig(region string) config.LocalDynamo {
	return config.LocalDynamo{
		AccessKeyID:     DynamoAccessKeyID,
		SecretAccessKey: DynamoSecretAccessKey,
		Region:          region,
		Host:            DynamoDBHost,
	}
}

// Sessions
const (
	SessionTokenSecret = "test-session-token-secret"
)

// Server
const (
	ServerPort = ":5010"
)

func ServerEndpoint(path string) string {
	return fmt.Sprintf("http://localhost%s%s", ServerPort, path)
}
