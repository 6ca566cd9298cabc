package services

import "errors"

var (
	ErrUnknownTank      = errors.New("unknown tank id")
	ErrTooFewPoints     = errors.New("too few points to fit")
	ErrNonNumericSeries = errors.New("series is not numeric")
)
