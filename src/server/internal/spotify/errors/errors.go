package spotifyerrors

import (
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
)

const (
	NotAuthenticatedCode      = api.ErrorCode("provider_not_authenticated")
	ProviderRequestFailedCode = api.ErrorCode("provider_request_failed")
	TokenExchangeFailedCode   = api.ErrorCode("token_exchange_failed")
)
