package domain

import "errors"

var (
	ErrIdentityLookupFailed = errors.New("identity lookup failed")
	ErrStoreReadFailed      = errors.New("store read failed")
	ErrStoreWriteFailed     = errors.New("store write failed")
	ErrValidationFailed     = errors.New("validation failed")
	ErrNotReady             = errors.New("link manager is not initialized")
	ErrIndexOutOfRange      = errors.New("link index out of range")
)
