package model

import (
	"github.com/shopspring/decimal"
)

// GroupKey is the dimension used to partition records.
type GroupKey string

const (
	ByProduct GroupKey = "product_name"
	ByCity    GroupKey = "customer_city"
	ByState   GroupKey = "customer_state"
)

// Value returns the dimension value of rec for this key.
func (k GroupKey) Value(rec Record) string {
	switch k {
	case ByProduct:
		return rec.ProductName
	case ByCity:
		return rec.CustomerCity
	case ByState:
		return rec.CustomerState
	default:
		return ""
	}
}

// Valid reports whether k names a known dimension.
func (k GroupKey) Valid() bool {
	return k == ByProduct || k == ByCity || k == ByState
}

// Metric is the per-group quantity used for ranking.
type Metric string

const (
	NumOrders Metric = "num_orders"
	Revenue   Metric = "revenue"
)

// GroupSummary holds the metrics of one partition.
type GroupSummary struct {
	Key       string          `json:"key"`
	NumOrders int             `json:"num_orders"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Compare orders a and b by metric, returning -1, 0 or 1.
func (m Metric) Compare(a, b GroupSummary) int {
	switch m {
	case Revenue:
		return a.Revenue.Cmp(b.Revenue)
	default:
		switch {
		case a.NumOrders < b.NumOrders:
			return -1
		case a.NumOrders > b.NumOrders:
			return 1
		}
		return 0
	}
}

// RankedSet holds independently selected head and tail slices.
// Top is descending by metric, Bottom ascending; they may overlap.
type RankedSet struct {
	Metric Metric         `json:"metric"`
	Top    []GroupSummary `json:"top"`
	Bottom []GroupSummary `json:"bottom"`
}

// DeliverySplit counts rows by arrival status.
type DeliverySplit struct {
	OnTime int `json:"on_time"`
	Late   int `json:"late"`
}

// Total returns the number of classified rows.
func (d DeliverySplit) Total() int {
	return d.OnTime + d.Late
}

// OnTimePercent returns the on-time share in percent, 0 when empty.
func (d DeliverySplit) OnTimePercent() float64 {
	if d.Total() == 0 {
		return 0
	}
	return float64(d.OnTime) * 100 / float64(d.Total())
}

// LatePercent returns the late share in percent, 0 when empty.
func (d DeliverySplit) LatePercent() float64 {
	if d.Total() == 0 {
		return 0
	}
	return float64(d.Late) * 100 / float64(d.Total())
}

// Table names under which report sections are addressable.
const (
	TableProductsByVolume  = "products_by_volume"
	TableProductsByRevenue = "products_by_revenue"
	TableCitiesTop10       = "cities_top10"
	TableStatesTop10       = "states_top10"
	TableDelivery          = "delivery"
)

// TableNames lists report tables in display order.
var TableNames = []string{
	TableProductsByVolume,
	TableProductsByRevenue,
	TableCitiesTop10,
	TableStatesTop10,
	TableDelivery,
}

// Report bundles every table the dashboard renders for one date range.
type Report struct {
	Range             DateRange      `json:"range"`
	FilteredRecords   int            `json:"filtered_records"`
	ProductsByVolume  RankedSet      `json:"products_by_volume"`
	ProductsByRevenue RankedSet      `json:"products_by_revenue"`
	CitiesTop10       []GroupSummary `json:"cities_top10"`
	StatesTop10       []GroupSummary `json:"states_top10"`
	Delivery          DeliverySplit  `json:"delivery"`
}

// Table returns a single section by name.
func (r *Report) Table(name string) (interface{}, bool) {
	switch name {
	case TableProductsByVolume:
		return r.ProductsByVolume, true
	case TableProductsByRevenue:
		return r.ProductsByRevenue, true
	case TableCitiesTop10:
		return r.CitiesTop10, true
	case TableStatesTop10:
		return r.StatesTop10, true
	case TableDelivery:
		return r.Delivery, true
	}
	return nil, false
}
