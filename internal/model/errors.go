package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnknownStatusError is returned when a row carries an arrival status other
// than OnTime or Late.
type UnknownStatusError struct {
	Status ArrivalStatus
	Row    int
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown arrival status %q at row %d", string(e.Status), e.Row)
}

// DataIntegrityError is returned when a group's revenue sums to a negative value.
type DataIntegrityError struct {
	Dimension GroupKey
	Key       string
	Revenue   decimal.Decimal
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("negative revenue %s for %s=%q", e.Revenue.String(), e.Dimension, e.Key)
}
