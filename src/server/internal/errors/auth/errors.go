package auth

import (
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
)

const (
	WrongCredentialsCode       = api.ErrorCode("wrong_credentials")
	NoAccountCode              = api.ErrorCode("no_account")
	WrongOwnerCode             = api.ErrorCode("wrong_owner")
	BadAuthorizationHeaderCode = api.ErrorCode("bad_header")
	BadSessionTokenCode        = api.ErrorCode("bad_session_token")
)
