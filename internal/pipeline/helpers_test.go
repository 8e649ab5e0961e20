package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"go-ecommerce-dashboard/internal/store"
)

const csvHeader = "order_id,product_name,payment_value,customer_city,customer_state,order_purchase_timestamp,arrival_status\n"

const sampleCSV = csvHeader +
	"o1,bed,10.50,sao paulo,SP,2018-01-01 10:00:00,On Time\n" +
	"o1,bed,5.25,sao paulo,SP,2018-01-01 10:00:00,On Time\n" +
	"o2,toys,20,rio de janeiro,RJ,2018-01-02 11:00:00,Late\n" +
	"o3,toys,7,curitiba,PR,2018-02-01 09:00:00,on time\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func setupStore(t *testing.T) {
	t.Helper()
	require.NoError(t, store.InitDB(":memory:"))
	t.Cleanup(func() { store.Close() })
}

// fastRetry keeps retry tests quick.
var fastRetry = RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
