package analytics

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ecommerce-dashboard/internal/model"
)

func TestGroupBy_DistinctOrdersAndRowRevenue(t *testing.T) {
	records := []model.Record{
		rec("o1", "X", "10.50", "2024-01-01"),
		rec("o1", "X", "10.50", "2024-01-01"), // second item of the same order
		rec("o2", "X", "5", "2024-01-02"),
		rec("o3", "Y", "20", "2024-01-03"),
	}

	got, err := GroupBy(records, model.ByProduct)
	require.NoError(t, err)
	require.Len(t, got, 2)

	m := byKey(got)
	assert.Equal(t, 2, m["X"].NumOrders)
	assert.True(t, dec("26").Equal(m["X"].Revenue), "got %s", m["X"].Revenue)
	assert.Equal(t, 1, m["Y"].NumOrders)
	assert.True(t, dec("20").Equal(m["Y"].Revenue))
}

func TestGroupBy_Empty(t *testing.T) {
	got, err := GroupBy(nil, model.ByCity)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGroupBy_EmptyKeyIsOwnGroup(t *testing.T) {
	records := []model.Record{
		rec("1", "", "3", "2024-01-01"),
		rec("2", "", "4", "2024-01-01"),
		rec("3", "Z", "1", "2024-01-01"),
	}

	got, err := GroupBy(records, model.ByProduct)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Z"}, keys(got))
	assert.Equal(t, 2, got[0].NumOrders)
	assert.True(t, dec("7").Equal(got[0].Revenue))
}

func TestGroupBy_OrderedByKey(t *testing.T) {
	records := []model.Record{
		rec("1", "b", "1", "2024-01-01", city("rio")),
		rec("2", "a", "1", "2024-01-01", city("belo horizonte")),
		rec("3", "c", "1", "2024-01-01", city("curitiba")),
	}

	got, err := GroupBy(records, model.ByProduct)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys(got))

	got, err = GroupBy(records, model.ByCity)
	require.NoError(t, err)
	assert.Equal(t, []string{"belo horizonte", "curitiba", "rio"}, keys(got))
}

func TestGroupBy_RevenueConservation(t *testing.T) {
	records := []model.Record{
		rec("1", "a", "0.10", "2024-01-01", city("rio"), state("RJ")),
		rec("1", "b", "0.20", "2024-01-01", city("rio"), state("RJ")),
		rec("2", "a", "129.99", "2024-01-02", city("santos"), state("SP")),
		rec("3", "c", "0.01", "2024-01-03", city("campinas"), state("SP")),
		rec("4", "", "1000", "2024-01-04", city(""), state("")),
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.PaymentValue)
	}

	for _, key := range []model.GroupKey{model.ByProduct, model.ByCity, model.ByState} {
		got, err := GroupBy(records, key)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, g := range got {
			sum = sum.Add(g.Revenue)
		}
		assert.True(t, total.Equal(sum), "%s: want %s got %s", key, total, sum)
	}
}

func TestGroupBy_NoDoubleCounting(t *testing.T) {
	records := []model.Record{
		rec("1", "a", "1", "2024-01-01", city("rio")),
		rec("1", "b", "1", "2024-01-01", city("rio")),
		rec("2", "a", "1", "2024-01-01", city("santos")),
		rec("3", "a", "1", "2024-01-01", city("santos")),
		rec("3", "a", "1", "2024-01-01", city("santos")),
	}
	distinct := map[string]bool{}
	for _, r := range records {
		distinct[r.OrderID] = true
	}

	cities, err := GroupBy(records, model.ByCity)
	require.NoError(t, err)
	sum := 0
	for _, g := range cities {
		sum += g.NumOrders
	}
	assert.Equal(t, len(distinct), sum)

	products, err := GroupBy(records, model.ByProduct)
	require.NoError(t, err)
	for _, g := range products {
		assert.LessOrEqual(t, g.NumOrders, len(distinct))
	}
}

func TestGroupBy_NegativeRevenue(t *testing.T) {
	records := []model.Record{
		rec("1", "X", "5", "2024-01-01"),
		rec("2", "X", "-7", "2024-01-01"),
	}

	_, err := GroupBy(records, model.ByProduct)
	require.Error(t, err)

	var die *model.DataIntegrityError
	require.True(t, errors.As(err, &die))
	assert.Equal(t, "X", die.Key)
	assert.Equal(t, model.ByProduct, die.Dimension)
	assert.True(t, dec("-2").Equal(die.Revenue))
}

func TestGroupBy_NegativeRowPositiveSum(t *testing.T) {
	records := []model.Record{
		rec("1", "X", "5", "2024-01-01"),
		rec("2", "X", "-2", "2024-01-01"),
	}

	got, err := GroupBy(records, model.ByProduct)
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(got[0].Revenue))
}
