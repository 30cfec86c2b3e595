package fuzzy

import "errors"

var (
	// ErrLabelCount indicates a variable that does not define every label exactly once.
	ErrLabelCount = errors.New("fuzzy: variable must define each of the five labels exactly once")

	// ErrUnknownLabel indicates a label outside NG..PG.
	ErrUnknownLabel = errors.New("fuzzy: unknown label")

	// ErrEmptyUniverse indicates a universe without sample points.
	ErrEmptyUniverse = errors.New("fuzzy: universe has no sample points")
)
