package buildererrors

import (
	"github.com/heartsync/heartsync-be/src/server/internal/errors/api"
)

const (
	BadPopulationRequestCode = api.ErrorCode("bad_population_request")
	PopulationFailedCode     = api.ErrorCode("population_failed")
)
