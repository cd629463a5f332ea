package mongodb

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

func customerFilter(f models.CustomerFilter) bson.M {
	filter := bson.M{}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	if len(f.IDs) > 0 {
		filter["_id"] = bson.M{"$in": f.IDs}
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"phone": pattern}}
	}
	return filter
}

func deliveryKeyFilter(key models.DeliveryKey) bson.M {
	return bson.M{"customerId": key.CustomerID, "date": key.Date, "shift": key.Shift}
}

func deliveryFilter(f models.DeliveryFilter) bson.M {
	filter := bson.M{}
	if len(f.CustomerIDs) > 0 {
		filter["customerId"] = bson.M{"$in": f.CustomerIDs}
	}
	if dates := dateRange(f.StartDate, f.EndDate); dates != nil {
		filter["date"] = dates
	}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.Shift != "" {
		filter["shift"] = f.Shift
	}
	if f.Delivered != nil {
		filter["delivered"] = *f.Delivered
	}
	return filter
}

func stockFilter(f models.StockFilter) bson.M {
	filter := bson.M{}
	if dates := dateRange(f.StartDate, f.EndDate); dates != nil {
		filter["date"] = dates
	}
	return filter
}

func paymentFilter(f models.PaymentFilter) bson.M {
	filter := bson.M{}
	if f.CustomerID != "" {
		filter["customerId"] = f.CustomerID
	}
	if f.Month != 0 {
		filter["month"] = f.Month
	}
	if f.Year != 0 {
		filter["year"] = f.Year
	}
	return filter
}

// dateRange compares YYYY-MM-DD strings, which sort like the dates they name.
func dateRange(start, end string) bson.M {
	if start == "" && end == "" {
		return nil
	}
	r := bson.M{}
	if start != "" {
		r["$gte"] = start
	}
	if end != "" {
		r["$lte"] = end
	}
	return r
}
