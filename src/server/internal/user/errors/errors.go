package usererrors

import (
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
)

const (
	UserNotFoundCode     = api.ErrorCode("user_not_found")
	ExistingUsernameCode = api.ErrorCode("existing_username")
	BadUserDataCode      = api.ErrorCode("bad_user_data")
)
