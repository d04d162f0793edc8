package domain

import "errors"

var (
	ErrMissingCredentials = errors.New("messaging provider credentials are missing")
	ErrNotificationFailed = errors.New("notification delivery failed")
)
