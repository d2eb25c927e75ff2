package service

import "errors"

var (
	// ErrUpstream marks failures of the nutrition source or the relay to it
	ErrUpstream = errors.New("upstream failure")
	// ErrUsage marks requests that cannot be served as given
	ErrUsage = errors.New("invalid request")
)
