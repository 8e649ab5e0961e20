package analytics

import (
	"golang.org/x/sync/errgroup"

	"go-ecommerce-dashboard/internal/model"
)

// Builder produces dashboard reports.
type Builder struct {
	TopN int // slice length for every ranked table; DefaultTopN when <= 0

	// Parallel runs each aggregation on its own goroutine. Tasks only read
	// the shared filtered slice and write their own result, so the output is
	// identical to the sequential path.
	Parallel bool
}

// BuildReport builds a report with the default builder.
func BuildReport(allRecords []model.Record, r model.DateRange) (*model.Report, error) {
	return Builder{}.Build(NewRecordStore(allRecords), r)
}

// Build filters store once by r and computes every report table from the
// filtered slice.
func (b Builder) Build(store *RecordStore, r model.DateRange) (*model.Report, error) {
	n := b.TopN
	if n <= 0 {
		n = DefaultTopN
	}
	filtered := store.FilterByDate(r)

	report := &model.Report{Range: r, FilteredRecords: len(filtered)}
	tasks := []func() error{
		func() error {
			products, err := GroupBy(filtered, model.ByProduct)
			if err != nil {
				return err
			}
			report.ProductsByVolume = TopBottom(products, model.NumOrders, n)
			report.ProductsByRevenue = TopBottom(products, model.Revenue, n)
			return nil
		},
		func() error {
			cities, err := GroupBy(filtered, model.ByCity)
			if err != nil {
				return err
			}
			report.CitiesTop10 = Top(cities, model.Revenue, n)
			return nil
		},
		func() error {
			states, err := GroupBy(filtered, model.ByState)
			if err != nil {
				return err
			}
			report.StatesTop10 = Top(states, model.Revenue, n)
			return nil
		},
		func() error {
			split, err := Classify(filtered)
			if err != nil {
				return err
			}
			report.Delivery = split
			return nil
		},
	}

	if !b.Parallel {
		for _, task := range tasks {
			if err := task(); err != nil {
				return nil, err
			}
		}
		return report, nil
	}

	var g errgroup.Group
	for _, task := range tasks {
		g.Go(task)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
