package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"go-ecommerce-dashboard/internal/model"
)

func TestLoadSource_CSV(t *testing.T) {
	path := writeFile(t, "orders.csv", sampleCSV)

	records, err := LoadSource(context.Background(), model.Source{Type: "csv", URL: path}, Options{})
	require.NoError(t, err)
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, "o1", first.OrderID)
	assert.Equal(t, "bed", first.ProductName)
	assert.True(t, first.PaymentValue.Equal(decimalOf(t, "10.50")))
	assert.Equal(t, "sao paulo", first.CustomerCity)
	assert.Equal(t, "SP", first.CustomerState)
	assert.Equal(t, time.Date(2018, 1, 1, 10, 0, 0, 0, time.UTC), first.PurchasedAt)
	assert.Equal(t, model.OnTime, first.ArrivalStatus)

	assert.Equal(t, model.Late, records[2].ArrivalStatus)
	assert.Equal(t, model.OnTime, records[3].ArrivalStatus, "status spelling is normalized")
}

func TestLoadSources_KeepsOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString(csvHeader)
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "a%d,p,1,c,S,2018-01-01 00:00:00,Late\n", i)
	}
	first := writeFile(t, "a.csv", b.String())
	second := writeFile(t, "b.csv", csvHeader+"b0,p,1,c,S,2018-01-01 00:00:00,Late\n")

	records, err := LoadSources(context.Background(), []model.Source{
		{Type: "csv", URL: first},
		{Type: "csv", URL: second},
	}, Options{Workers: 8})
	require.NoError(t, err)
	require.Len(t, records, 501)
	for i := 0; i < 500; i++ {
		require.Equal(t, fmt.Sprintf("a%d", i), records[i].OrderID)
	}
	assert.Equal(t, "b0", records[500].OrderID)
}

func TestLoadSource_MissingColumn(t *testing.T) {
	path := writeFile(t, "orders.csv", "order_id,product_name\no1,bed\n")

	_, err := LoadSource(context.Background(), model.Source{URL: path}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment_value")
}

func TestLoadSource_InvalidRow(t *testing.T) {
	path := writeFile(t, "orders.csv", sampleCSV+"o9,bed,abc,x,Y,2018-01-01 00:00:00,Late\n")

	_, err := LoadSource(context.Background(), model.Source{URL: path}, Options{})
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 5, rowErr.Line)

	records, err := LoadSource(context.Background(), model.Source{URL: path}, Options{
		Validation: model.ValidationRules{SkipInvalid: true},
	})
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestLoadSource_UnknownStatusKept(t *testing.T) {
	path := writeFile(t, "orders.csv", csvHeader+"o1,bed,1,x,Y,2018-01-01 00:00:00,Lost\n")

	records, err := LoadSource(context.Background(), model.Source{URL: path}, Options{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.ArrivalStatus("Lost"), records[0].ArrivalStatus)
}

func TestLoadSource_NegativePaymentAccepted(t *testing.T) {
	path := writeFile(t, "orders.csv", csvHeader+"o1,bed,-3.5,x,Y,2018-01-01 00:00:00,Late\n")

	records, err := LoadSource(context.Background(), model.Source{URL: path}, Options{})
	require.NoError(t, err)
	assert.True(t, records[0].PaymentValue.IsNegative())
}

func TestLoadSource_CustomLayout(t *testing.T) {
	path := writeFile(t, "orders.csv", csvHeader+"o1,bed,1,x,Y,02/01/2018 10:30,Late\n")

	records, err := LoadSource(context.Background(), model.Source{URL: path}, Options{
		Validation: model.ValidationRules{TimestampLayout: "02/01/2006 15:04"},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 2, 10, 30, 0, 0, time.UTC), records[0].PurchasedAt)
}

func TestLoadSource_Transformations(t *testing.T) {
	path := writeFile(t, "orders.csv", csvHeader+"o1,  BED bath ,1,  SAO PAULO,sp,2018-01-01 00:00:00,Late\n")

	records, err := LoadSource(context.Background(), model.Source{URL: path}, Options{
		Transformations: []string{"trimStrings", "normalizeNames"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bed Bath", records[0].ProductName)
	assert.Equal(t, "Sao Paulo", records[0].CustomerCity)
	assert.Equal(t, "Sp", records[0].CustomerState)
	assert.Equal(t, "o1", records[0].OrderID, "non-dimension fields untouched")

	records, err = LoadSource(context.Background(), model.Source{URL: path}, Options{
		Transformations: []string{"trimStrings", "convertToUppercase"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SP", records[0].CustomerState)
	assert.Equal(t, "BED BATH", records[0].ProductName)

	_, err = LoadSource(context.Background(), model.Source{URL: path}, Options{
		Transformations: []string{"calculateBMI"},
	})
	assert.Error(t, err)
}

func TestLoadSource_UnknownType(t *testing.T) {
	_, err := LoadSource(context.Background(), model.Source{Type: "parquet", URL: "x"}, Options{})
	assert.Error(t, err)

	_, err = LoadSources(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestLoadSource_JSON(t *testing.T) {
	path := writeFile(t, "orders.json", `[
		{"order_id": "o1", "product_name": "bed", "payment_value": 12.30, "customer_city": "rio", "customer_state": "RJ", "order_purchase_timestamp": "2018-01-01 10:00:00", "arrival_status": "Late"},
		{"order_id": "o2", "product_name": "toys", "payment_value": "4", "customer_city": "rio", "customer_state": "RJ", "order_purchase_timestamp": "2018-01-02T10:00:00Z", "arrival_status": "On Time"}
	]`)

	records, err := LoadSource(context.Background(), model.Source{Type: "json", URL: path}, Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].PaymentValue.Equal(decimalOf(t, "12.3")))
	assert.Equal(t, model.OnTime, records[1].ArrivalStatus)
}

func TestLoadSource_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("orders")
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(sampleCSV), "\n") {
		row := sheet.AddRow()
		for _, cell := range strings.Split(line, ",") {
			row.AddCell().SetString(cell)
		}
	}
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, f.Save(path))

	records, err := LoadSource(context.Background(), model.Source{Type: "xlsx", URL: path}, Options{})
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "rio de janeiro", records[2].CustomerCity)
}

func TestLoadSource_HTTPRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, sampleCSV)
	}))
	defer srv.Close()

	records, err := LoadSource(context.Background(), model.Source{Type: "csv", URL: srv.URL + "/main_data.csv"}, Options{Retry: fastRetry})
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.EqualValues(t, 3, calls.Load())
}

func TestLoadSource_HTTPNotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := LoadSource(context.Background(), model.Source{URL: srv.URL}, Options{Retry: fastRetry})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.EqualValues(t, 1, calls.Load())
}
