package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ecommerce-dashboard/internal/model"
)

func summary(key string, orders int, revenue string) model.GroupSummary {
	return model.GroupSummary{Key: key, NumOrders: orders, Revenue: dec(revenue)}
}

func TestTopBottom_StableTies(t *testing.T) {
	in := []model.GroupSummary{
		summary("A", 5, "1"),
		summary("B", 5, "1"),
		summary("C", 3, "1"),
	}

	got := TopBottom(in, model.NumOrders, 2)
	assert.Equal(t, []string{"A", "B"}, keys(got.Top))
	assert.Equal(t, []string{"C", "A"}, keys(got.Bottom))
}

func TestTopBottom_BottomIsNotReversedTop(t *testing.T) {
	in := []model.GroupSummary{
		summary("A", 1, "10"),
		summary("B", 1, "10"),
		summary("C", 1, "10"),
		summary("D", 9, "90"),
	}

	got := TopBottom(in, model.Revenue, 3)
	assert.Equal(t, []string{"D", "A", "B"}, keys(got.Top))
	// Ascending stable sort keeps A, B, C in input order.
	assert.Equal(t, []string{"A", "B", "C"}, keys(got.Bottom))
}

func TestTopBottom_Metrics(t *testing.T) {
	in := []model.GroupSummary{
		summary("many-cheap", 10, "100"),
		summary("few-dear", 2, "900.50"),
		summary("mid", 5, "300"),
	}

	byVolume := TopBottom(in, model.NumOrders, 10)
	assert.Equal(t, model.NumOrders, byVolume.Metric)
	assert.Equal(t, []string{"many-cheap", "mid", "few-dear"}, keys(byVolume.Top))
	assert.Equal(t, []string{"few-dear", "mid", "many-cheap"}, keys(byVolume.Bottom))

	byRevenue := TopBottom(in, model.Revenue, 10)
	assert.Equal(t, []string{"few-dear", "mid", "many-cheap"}, keys(byRevenue.Top))
	assert.Equal(t, []string{"many-cheap", "mid", "few-dear"}, keys(byRevenue.Bottom))
}

func TestTopBottom_DecimalPrecision(t *testing.T) {
	in := []model.GroupSummary{
		summary("a", 1, "0.30"),
		summary("b", 1, "0.1"),
		summary("c", 1, "0.3"),
	}

	got := TopBottom(in, model.Revenue, 1)
	// 0.30 and 0.3 compare equal, so input order decides.
	assert.Equal(t, []string{"a"}, keys(got.Top))
	assert.Equal(t, []string{"b"}, keys(got.Bottom))
}

func TestTopBottom_Empty(t *testing.T) {
	got := TopBottom(nil, model.Revenue, 10)
	assert.Empty(t, got.Top)
	assert.Empty(t, got.Bottom)
	assert.NotNil(t, got.Top)
	assert.NotNil(t, got.Bottom)
}

func TestTopBottom_NonPositiveN(t *testing.T) {
	in := []model.GroupSummary{summary("A", 1, "1")}

	for _, n := range []int{0, -3} {
		got := TopBottom(in, model.NumOrders, n)
		assert.Empty(t, got.Top)
		assert.Empty(t, got.Bottom)
	}
}

func TestTopBottom_SizesAndOverlap(t *testing.T) {
	tests := []struct {
		groups  int
		n       int
		wantLen int
		overlap bool
	}{
		{groups: 3, n: 10, wantLen: 3, overlap: true},
		{groups: 15, n: 10, wantLen: 10, overlap: true},
		{groups: 20, n: 10, wantLen: 10, overlap: false},
		{groups: 25, n: 10, wantLen: 10, overlap: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_groups", tt.groups), func(t *testing.T) {
			in := make([]model.GroupSummary, tt.groups)
			for i := range in {
				in[i] = summary(fmt.Sprintf("g%02d", i), i+1, fmt.Sprintf("%d", i+1))
			}

			got := TopBottom(in, model.NumOrders, tt.n)
			require.Len(t, got.Top, tt.wantLen)
			require.Len(t, got.Bottom, tt.wantLen)

			top := map[string]bool{}
			for _, g := range got.Top {
				top[g.Key] = true
			}
			shared := false
			for _, g := range got.Bottom {
				shared = shared || top[g.Key]
			}
			assert.Equal(t, tt.overlap, shared)
		})
	}
}

func TestTopBottom_Idempotent(t *testing.T) {
	in := []model.GroupSummary{
		summary("A", 2, "5"),
		summary("B", 2, "5"),
		summary("C", 7, "1"),
		summary("D", 1, "9"),
	}
	orig := make([]model.GroupSummary, len(in))
	copy(orig, in)

	first := TopBottom(in, model.Revenue, 2)
	second := TopBottom(in, model.Revenue, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, orig, in, "input must not be reordered")
}

func TestTop_AppendDoesNotAlias(t *testing.T) {
	in := []model.GroupSummary{summary("A", 3, "3"), summary("B", 2, "2"), summary("C", 1, "1")}

	top := Top(in, model.NumOrders, 2)
	top = append(top, summary("Z", 0, "0"))
	assert.Equal(t, "C", in[2].Key)
	assert.Len(t, top, 3)
}
