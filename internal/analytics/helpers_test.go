package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"go-ecommerce-dashboard/internal/model"
)

func ts(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	panic("bad timestamp " + s)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recOpt func(*model.Record)

func city(c string) recOpt  { return func(r *model.Record) { r.CustomerCity = c } }
func state(s string) recOpt { return func(r *model.Record) { r.CustomerState = s } }
func status(s model.ArrivalStatus) recOpt {
	return func(r *model.Record) { r.ArrivalStatus = s }
}

func rec(order, product, pay, when string, opts ...recOpt) model.Record {
	r := model.Record{
		OrderID:       order,
		ProductName:   product,
		PaymentValue:  dec(pay),
		CustomerCity:  "sao paulo",
		CustomerState: "SP",
		PurchasedAt:   ts(when),
		ArrivalStatus: model.OnTime,
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

func keys(s []model.GroupSummary) []string {
	out := make([]string, len(s))
	for i, g := range s {
		out[i] = g.Key
	}
	return out
}

func byKey(s []model.GroupSummary) map[string]model.GroupSummary {
	out := make(map[string]model.GroupSummary, len(s))
	for _, g := range s {
		out[g.Key] = g
	}
	return out
}
