package analytics

import (
	"fmt"

	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/pkg/utils"
)

// BoundError reports an unparsable date-range bound.
type BoundError struct {
	Param string // start or end
	Value string
	Err   error
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("invalid %s date %q: %v", e.Param, e.Value, e.Err)
}

func (e *BoundError) Unwrap() error { return e.Err }

// ResolveRange parses user-supplied bounds. An empty bound falls back to the
// matching end of the store's bounds; for an empty store it stays zero.
func ResolveRange(store *RecordStore, start, end string) (model.DateRange, error) {
	r, _ := store.Bounds()

	if start != "" {
		t, err := utils.ParseBound(start)
		if err != nil {
			return model.DateRange{}, &BoundError{Param: "start", Value: start, Err: err}
		}
		r.Start = t
	}
	if end != "" {
		t, err := utils.ParseBound(end)
		if err != nil {
			return model.DateRange{}, &BoundError{Param: "end", Value: end, Err: err}
		}
		r.End = t
	}
	return r, nil
}
