package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ArrivalStatus is the delivery outcome of an order line.
type ArrivalStatus string

const (
	OnTime ArrivalStatus = "On Time"
	Late   ArrivalStatus = "Late"
)

// ParseArrivalStatus maps the spellings seen in exports onto the canonical
// values. Anything else is returned verbatim so it can be rejected downstream.
func ParseArrivalStatus(s string) ArrivalStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on time", "ontime", "on_time", "on-time":
		return OnTime
	case "late":
		return Late
	default:
		return ArrivalStatus(s)
	}
}

// Record represents a single order line item
type Record struct {
	OrderID       string          `json:"order_id"`
	ProductName   string          `json:"product_name"`
	PaymentValue  decimal.Decimal `json:"payment_value"`
	CustomerCity  string          `json:"customer_city"`
	CustomerState string          `json:"customer_state"`
	PurchasedAt   time.Time       `json:"order_purchase_timestamp"`
	ArrivalStatus ArrivalStatus   `json:"arrival_status"`
}

// DateRange is inclusive on both ends. An inverted range is valid and
// matches nothing.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Inverted reports whether Start is after End.
func (r DateRange) Inverted() bool {
	return r.Start.After(r.End)
}

// Contains reports whether t falls within the range at full precision.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
