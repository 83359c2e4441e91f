package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity or a required ancestor does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidArgument is returned when a required path id or field is missing.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyTitle is returned when a create or update carries an empty title.
	ErrEmptyTitle = fmt.Errorf("%w: title must not be empty", ErrInvalidArgument)
	// ErrNotPendingDeletion is returned when confirming removal of a chapter that was never staged for a move.
	ErrNotPendingDeletion = errors.New("chapter is not pending deletion")
	// ErrVersionNotGreater is returned when a publish version does not advance the current one.
	ErrVersionNotGreater = errors.New("new version must be greater than current version")
	// ErrNotPermutation is returned when a reorder does not name every sibling exactly once.
	ErrNotPermutation = errors.New("ordered ids are not a permutation of the sibling set")
)
