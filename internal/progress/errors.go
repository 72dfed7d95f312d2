package progress

import "errors"

var (
	// ErrInvalidSelection is returned for a selection of the wrong size, with
	// duplicates, or with unknown interests.
	ErrInvalidSelection = errors.New("invalid interest selection")

	// ErrDuplicateInterest is returned when adding an interest already selected.
	ErrDuplicateInterest = errors.New("interest already selected")

	// ErrNotAllComplete is returned when adding an interest before every
	// selected interest is complete.
	ErrNotAllComplete = errors.New("not all interests complete")

	// ErrInvalidAmount is returned for a non-positive credit amount.
	ErrInvalidAmount = errors.New("credit amount must be positive")

	// ErrNotReady is returned by mutations before hydration has finished.
	ErrNotReady = errors.New("game state not hydrated")

	// ErrClosed is returned by Hydrate and every mutation once Close has begun.
	ErrClosed = errors.New("engine closed")

	ErrUnknownInterest = errors.New("interest not selected")
	ErrUnknownStage    = errors.New("unknown stage")
	ErrStageLocked     = errors.New("stage locked")
	ErrNoHearts        = errors.New("no hearts left")
)
