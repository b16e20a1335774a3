package poststorage

import "github.com/cockroachdb/errors/domains"

var (
	PostNotFoundMark = domains.New("post_not_found")
	DefaultErrorMark = domains.New("default_error")
)
