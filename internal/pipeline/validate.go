package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/pkg/utils"
)

// RowError reports a source row that could not be typed.
type RowError struct {
	URL  string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.URL, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

type indexedRecord struct {
	source, line int
	rec          model.Record
}

// ValidateRecords types the rows from in with a pool of workers. Invalid rows
// fail the load, or are dropped when opts.Validation.SkipInvalid is set. The
// result keeps source order regardless of worker scheduling.
func ValidateRecords(ctx context.Context, in <-chan RawRow, opts Options) ([]model.Record, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([][]indexedRecord, workers)
	var valid, skipped atomic.Int64

	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case row, ok := <-in:
					if !ok {
						return nil
					}
					rec, err := toRecord(row, opts)
					if err != nil {
						rowErr := &RowError{URL: row.URL, Line: row.Line, Err: err}
						if !opts.Validation.SkipInvalid {
							return rowErr
						}
						if skipped.Add(1) <= 5 {
							zap.L().Warn("skipping invalid row", zap.Int("worker", w), zap.Error(rowErr))
						}
						recordsSkipped.Inc()
						continue
					}
					valid.Add(1)
					results[w] = append(results[w], indexedRecord{source: row.Source, line: row.Line, rec: rec})
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []indexedRecord
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].source != merged[j].source {
			return merged[i].source < merged[j].source
		}
		return merged[i].line < merged[j].line
	})

	records := make([]model.Record, len(merged))
	for i, m := range merged {
		records[i] = m.rec
	}

	zap.L().Info("validation summary",
		zap.Int64("valid", valid.Load()),
		zap.Int64("skipped", skipped.Load()),
	)
	return records, nil
}

// toRecord applies the configured transformations and types one row.
func toRecord(row RawRow, opts Options) (model.Record, error) {
	fields := make(map[string]string, len(row.Fields))
	for k, v := range row.Fields {
		fields[k] = v
	}
	applyTransformations(fields, opts.Transformations)

	orderID := strings.TrimSpace(fields[colOrderID])
	if orderID == "" {
		return model.Record{}, eris.Errorf("missing %s", colOrderID)
	}

	payment, err := decimal.NewFromString(strings.TrimSpace(fields[colPaymentValue]))
	if err != nil {
		return model.Record{}, eris.Errorf("invalid %s %q", colPaymentValue, fields[colPaymentValue])
	}

	layout := opts.Validation.TimestampLayout
	if layout == "" {
		layout = utils.DefaultTimestampLayout
	}
	purchasedAt, err := utils.ParseTimestamp(fields[colPurchasedAt], layout)
	if err != nil {
		return model.Record{}, eris.Wrapf(err, "invalid %s", colPurchasedAt)
	}

	return model.Record{
		OrderID:       orderID,
		ProductName:   fields[colProductName],
		PaymentValue:  payment,
		CustomerCity:  fields[colCustomerCity],
		CustomerState: fields[colCustomerState],
		PurchasedAt:   purchasedAt,
		ArrivalStatus: model.ParseArrivalStatus(fields[colArrivalStatus]),
	}, nil
}
