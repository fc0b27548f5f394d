package model

import "errors"

var (
	ErrWheelNotFound    = errors.New("wheel not found")
	ErrNoSegments       = errors.New("wheel has no segments")
	ErrTooManySegments  = errors.New("too many segments for plan")
	ErrPremiumRequired  = errors.New("premium plan required")
	ErrSpinInProgress   = errors.New("spin already in progress")
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidPlacement = errors.New("placement must be within [-1, 1]")
	ErrInvalidIndex     = errors.New("segment index out of range")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrWheelExists      = errors.New("wheel already exists")
	ErrInvalidWheelID   = errors.New("invalid wheel id")
	ErrInvalidSize      = errors.New("unknown size preset")
	ErrInvalidWeight    = errors.New("segment weight out of range")
)
