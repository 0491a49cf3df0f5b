package gateway

import "errors"

// Sentinel kinds for gateway errors. Upstream failures keep the
// footballdata sentinels (ErrConfiguration, ErrDataSource).
var (
	ErrUnknownCompetition = errors.New("unknown competition")
	ErrInvalidArgument    = errors.New("invalid argument")
)
