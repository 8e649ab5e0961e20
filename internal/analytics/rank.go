package analytics

import (
	"sort"

	"go-ecommerce-dashboard/internal/model"
)

// DefaultTopN is the slice length used by the dashboard.
const DefaultTopN = 10

// TopBottom selects the n highest and n lowest groups by metric. The two
// slices come from separate stable sorts of summaries, so equal values keep
// their input order in both directions. summaries is not modified.
func TopBottom(summaries []model.GroupSummary, metric model.Metric, n int) model.RankedSet {
	return model.RankedSet{
		Metric: metric,
		Top:    Top(summaries, metric, n),
		Bottom: Bottom(summaries, metric, n),
	}
}

// Top returns the first min(n, len) groups of a stable descending sort.
func Top(summaries []model.GroupSummary, metric model.Metric, n int) []model.GroupSummary {
	sorted := sortedCopy(summaries, func(a, b model.GroupSummary) bool {
		return metric.Compare(a, b) > 0
	})
	return head(sorted, n)
}

// Bottom returns the first min(n, len) groups of a stable ascending sort.
func Bottom(summaries []model.GroupSummary, metric model.Metric, n int) []model.GroupSummary {
	sorted := sortedCopy(summaries, func(a, b model.GroupSummary) bool {
		return metric.Compare(a, b) < 0
	})
	return head(sorted, n)
}

func sortedCopy(summaries []model.GroupSummary, less func(a, b model.GroupSummary) bool) []model.GroupSummary {
	cp := make([]model.GroupSummary, len(summaries))
	copy(cp, summaries)
	sort.SliceStable(cp, func(i, j int) bool { return less(cp[i], cp[j]) })
	return cp
}

func head(s []model.GroupSummary, n int) []model.GroupSummary {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n:n]
}
