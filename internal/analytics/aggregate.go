package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"go-ecommerce-dashboard/internal/model"
)

// groupState accumulates one partition.
type groupState struct {
	orders  map[string]struct{}
	revenue decimal.Decimal
}

// GroupBy partitions records by key. NumOrders counts distinct order IDs,
// Revenue sums payment values over every row. Empty keys form their own
// group. The result is ordered by key so that ties downstream resolve the
// same way regardless of input order.
func GroupBy(records []model.Record, key model.GroupKey) ([]model.GroupSummary, error) {
	groups := make(map[string]*groupState)
	for _, rec := range records {
		k := key.Value(rec)
		g, ok := groups[k]
		if !ok {
			g = &groupState{orders: make(map[string]struct{}), revenue: decimal.Zero}
			groups[k] = g
		}
		g.orders[rec.OrderID] = struct{}{}
		g.revenue = g.revenue.Add(rec.PaymentValue)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.GroupSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		if g.revenue.IsNegative() {
			return nil, &model.DataIntegrityError{Dimension: key, Key: k, Revenue: g.revenue}
		}
		out = append(out, model.GroupSummary{
			Key:       k,
			NumOrders: len(g.orders),
			Revenue:   g.revenue,
		})
	}
	return out, nil
}
