// Package entity wraps normalized records in value objects that expose the
// derived display attributes of teams, players and matches.
package entity

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	// ErrMalformedInput rejects a record that breaks a structural invariant.
	// Batch builders drop such rows and keep going.
	ErrMalformedInput = errors.New("malformed input")

	ErrInvalidFounded  = fmt.Errorf("%w: founded year must be >= %d", ErrMalformedInput, minFoundedYear)
	ErrMissingFullTime = fmt.Errorf("%w: score must contain full time", ErrMalformedInput)
	ErrInvalidKickoff  = fmt.Errorf("%w: unparsable kickoff time", ErrMalformedInput)
	ErrMissingIdentity = fmt.Errorf("%w: missing id or name", ErrMalformedInput)
)
