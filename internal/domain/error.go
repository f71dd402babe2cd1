package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrNoInput               = errors.New("no input provided")
	ErrRequestFailed         = errors.New("recommendation request failed")
	ErrSubmissionInFlight    = errors.New("a submission is already in flight")
	ErrImageTooLarge         = errors.New("image exceeds maximum size")
	ErrUnsupportedImageType  = errors.New("unsupported image type")
	ErrUnsupportedCapability = errors.New("capability not available in this runtime")
	ErrInvalidArgument       = errors.New("invalid argument")
)
