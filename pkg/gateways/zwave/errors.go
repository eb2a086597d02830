package zwave

import "github.com/pkg/errors"

var (
	ErrUnknownNode  = errors.New("unknown node")
	ErrDriverFailed = errors.New("driver failed")
	ErrNoFlow       = errors.New("no zwave flow: instantiate a zwave node first")
	ErrInvalidEvent = errors.New("invalid event")
)
