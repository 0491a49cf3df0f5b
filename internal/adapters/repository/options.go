package repository

import (
	"time"

	"github.com/okian/footstats/pkg/logger"
)

type options struct {
	now func() time.Time
	log logger.Logger
}

func defaultOptions() options {
	return options{
		now: time.Now,
		log: logger.Nop(),
	}
}

// Option applies a configuration option to a file store.
type Option func(*options)

// WithClock replaces the wall clock used for timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
