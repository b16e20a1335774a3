package posterrors

import (
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
)

const (
	PostNotFoundCode = api.ErrorCode("post_not_found")
	BadPostDataCode  = api.ErrorCode("bad_post_data")
)
