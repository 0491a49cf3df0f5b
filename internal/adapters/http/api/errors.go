package api

import (
	"errors"
	"net/http"

	"github.com/okian/footstats/internal/adapters/footballdata"
	service "github.com/okian/footstats/internal/app"
	"github.com/okian/footstats/internal/domain/entity"
	"github.com/okian/footstats/internal/gateway"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// classify maps a service error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, gateway.ErrInvalidArgument):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, gateway.ErrUnknownCompetition):
		return http.StatusNotFound, "unknown_competition"
	case errors.Is(err, footballdata.ErrConfiguration):
		return http.StatusServiceUnavailable, "not_configured"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_ready"
	case footballdata.StatusOf(err) == http.StatusNotFound:
		return http.StatusNotFound, "not_found"
	case errors.Is(err, footballdata.ErrDataSource):
		return http.StatusBadGateway, "data_source_error"
	case errors.Is(err, entity.ErrMalformedInput):
		return http.StatusBadGateway, "malformed_upstream_record"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
