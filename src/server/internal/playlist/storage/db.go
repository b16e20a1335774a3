package playliststorage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
	"github.com/heartsync/heartsync-be/src/server/internal/playlist/entity"
	"github.com/heartsync/heartsync-be/src/shared/lib/dynamo"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
)

const (
	PlaylistsTable = "Playlists"

	existingPlaylistCondition = "attribute_exists(" + playlistKey + ")"
)

var _ playlistentity.Store = DB{}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) CreatePlaylist(ctx context.Context, record playlistentity.Record) error {
	if record.OwnerID == "" || record.PlaylistID == "" {
		err := errors.New("Owner ID or playlist ID is empty")
		return mark.Wrap(err, DefaultErrorMark, "Playlist record is missing its key")
	}

	item := fromRecord(record, time.Now())

	err := d.dynamoDB.Table(PlaylistsTable).Table.
		Put(item).
		RunWithContext(ctx)

	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put the playlist record in the DB")
	}

	return nil
}

func (d DB) GetPlaylist(ctx context.Context, ownerID string, playlistID string) (playlistentity.Record, error) {
	if ownerID == "" || playlistID == "" {
		err := errors.New("Owner ID or playlist ID is empty")
		return playlistentity.Record{}, mark.Wrap(err, PlaylistNotFoundMark, "No key provided to fetch playlist")
	}

	value := dbPlaylist{}
	err := d.dynamoDB.Table(PlaylistsTable).
		Get(ownerKey, ownerID).
		Range(playlistKey, dynamo.Equal, playlistID).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case errors.Is(err, dynamo.ErrNotFound):
			return playlistentity.Record{}, mark.Wrap(err, PlaylistNotFoundMark, "Playlist for this owner and ID couldn't be found")
		default:
			return playlistentity.Record{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch playlist due to unknown data store error")
		}
	}

	return value.toRecord(), nil
}

func (d DB) GetPlaylistsForUser(ctx context.Context, ownerID string) ([]playlistentity.Record, error) {
	values := []dbPlaylist{}
	err := d.dynamoDB.Table(PlaylistsTable).
		Get(ownerKey, ownerID).
		AllWithContext(ctx, &values)

	if err != nil {
		return nil, mark.Wrap(err, DefaultErrorMark, "Failed to fetch all playlists for owner ID")
	}

	records := []playlistentity.Record{}
	for _, value := range values {
		records = append(records, value.toRecord())
	}

	return records, nil
}

// ReplaceTrackURIs overwrites the whole identifier list. Repeating an
// identical write has no effect beyond refreshing the stored timestamp.
func (d DB) ReplaceTrackURIs(ctx context.Context, ownerID string, playlistID string, trackURIs []string) error {
	if trackURIs == nil {
		trackURIs = []string{}
	}

	err := d.dynamoDB.Table(PlaylistsTable).Table.
		Update(ownerKey, ownerID).
		Range(playlistKey, playlistID).
		Set(trackURIsKey, trackURIs).
		Set(savedAtKey, time.Now()).
		If(existingPlaylistCondition).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, PlaylistNotFoundMark, "Cannot replace tracks: playlist record cannot be found")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to replace the playlist's track identifiers")
	}

	return nil
}

func (d DB) DeletePlaylist(ctx context.Context, ownerID string, playlistID string) error {
	if ownerID == "" || playlistID == "" {
		err := errors.New("Owner ID or playlist ID is empty")
		return mark.Wrap(err, PlaylistNotFoundMark, "No key provided to delete playlist")
	}

	delExpr := d.dynamoDB.Table(PlaylistsTable).
		Delete(ownerKey, ownerID).
		Range(playlistKey, playlistID).
		If(existingPlaylistCondition)

	if err := delExpr.RunWithContext(ctx); err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, PlaylistNotFoundMark, "Failed to find playlist to delete")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to delete playlist")
	}

	return nil
}

func conditionalCheckFailed(err error) bool {
	_, ok := err.(*dynamodb.ConditionalCheckFailedException)
	return ok
}
