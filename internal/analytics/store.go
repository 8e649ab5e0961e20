// Package analytics is the aggregation and ranking engine behind the
// dashboard. Everything here is pure: no I/O, no logging, no shared state.
package analytics

import (
	"go-ecommerce-dashboard/internal/model"
)

// RecordStore holds the loaded table. It is never mutated after construction.
type RecordStore struct {
	records []model.Record
}

// NewRecordStore copies records into a new store.
func NewRecordStore(records []model.Record) *RecordStore {
	cp := make([]model.Record, len(records))
	copy(cp, records)
	return &RecordStore{records: cp}
}

// Len returns the number of records held.
func (s *RecordStore) Len() int {
	return len(s.records)
}

// All returns a copy of every record in load order.
func (s *RecordStore) All() []model.Record {
	cp := make([]model.Record, len(s.records))
	copy(cp, s.records)
	return cp
}

// FilterByDate returns the records purchased within r, in load order.
func (s *RecordStore) FilterByDate(r model.DateRange) []model.Record {
	if r.Inverted() {
		return []model.Record{}
	}
	out := make([]model.Record, 0, len(s.records))
	for _, rec := range s.records {
		if r.Contains(rec.PurchasedAt) {
			out = append(out, rec)
		}
	}
	return out
}

// Bounds returns the earliest and latest purchase timestamps. ok is false
// for an empty store.
func (s *RecordStore) Bounds() (r model.DateRange, ok bool) {
	if len(s.records) == 0 {
		return r, false
	}
	r.Start = s.records[0].PurchasedAt
	r.End = s.records[0].PurchasedAt
	for _, rec := range s.records[1:] {
		if rec.PurchasedAt.Before(r.Start) {
			r.Start = rec.PurchasedAt
		}
		if rec.PurchasedAt.After(r.End) {
			r.End = rec.PurchasedAt
		}
	}
	return r, true
}
