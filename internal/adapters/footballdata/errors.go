package footballdata

import (
	"errors"
	"fmt"
)

// Sentinel kinds for upstream errors.
var (
	// ErrConfiguration means the client cannot talk to the upstream at all,
	// typically because no API token is configured. No request is sent.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataSource matches every *DataSourceError and every failure to
	// reach or decode the upstream.
	ErrDataSource = errors.New("data source error")
)

// maxBodyExcerpt bounds the response body kept on a DataSourceError.
const maxBodyExcerpt = 200

// DataSourceError reports a non-success upstream response. Status is 0 when
// no response was received.
type DataSourceError struct {
	Endpoint string
	Status   int
	Body     string
}

func newDataSourceError(endpoint string, status int, body []byte) *DataSourceError {
	if len(body) > maxBodyExcerpt {
		body = body[:maxBodyExcerpt]
	}
	return &DataSourceError{Endpoint: endpoint, Status: status, Body: string(body)}
}

func (e *DataSourceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("API error on %s: %s", e.Endpoint, e.Body)
	}
	return fmt.Sprintf("API error %d on %s: %s", e.Status, e.Endpoint, e.Body)
}

// Is makes errors.Is(err, ErrDataSource) hold.
func (e *DataSourceError) Is(target error) bool {
	return target == ErrDataSource
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var dse *DataSourceError
	if errors.As(err, &dse) {
		return dse.Status
	}
	return 0
}
