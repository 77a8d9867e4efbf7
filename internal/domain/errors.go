package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrRateLimited           = errors.New("rate limited")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrNoViableOpportunities = errors.New("no viable opportunities")
	ErrStageOverflow         = errors.New("stage outside plan range")
)
