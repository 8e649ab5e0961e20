package analytics

import (
	"go-ecommerce-dashboard/internal/model"
)

// Classify counts rows by arrival status. Any status other than OnTime or
// Late fails the whole classification.
func Classify(records []model.Record) (model.DeliverySplit, error) {
	var split model.DeliverySplit
	for i, rec := range records {
		switch rec.ArrivalStatus {
		case model.OnTime:
			split.OnTime++
		case model.Late:
			split.Late++
		default:
			return model.DeliverySplit{}, &model.UnknownStatusError{Status: rec.ArrivalStatus, Row: i}
		}
	}
	return split, nil
}
