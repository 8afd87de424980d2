package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrNoReferenceRace  = errors.New("no reference race before this race")
	ErrAlreadyEvaluated = errors.New("bet has already been evaluated")
	ErrDuplicateBet     = errors.New("user already has a bet for this race")
)
