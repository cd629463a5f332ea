package models

import (
	"strings"
	"time"
)

// Shift is one of the two daily delivery windows.
type Shift string

const (
	ShiftMorning Shift = "MORNING"
	ShiftEvening Shift = "EVENING"
)

// ParseShift normalizes a shift string.
func ParseShift(value string) (Shift, bool) {
	switch Shift(strings.ToUpper(strings.TrimSpace(value))) {
	case ShiftMorning:
		return ShiftMorning, true
	case ShiftEvening:
		return ShiftEvening, true
	default:
		return "", false
	}
}

// ShiftAt derives the current shift from the wall-clock hour: before noon is morning.
func ShiftAt(t time.Time) Shift {
	if t.Hour() < 12 {
		return ShiftMorning
	}
	return ShiftEvening
}

// Delivery records the milk handed to one customer for one shift of one day.
type Delivery struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CustomerID   string    `gorm:"size:36;not null;uniqueIndex:idx_delivery_key" bson:"customerId" json:"customerId"`
	Date         string    `gorm:"size:10;not null;uniqueIndex:idx_delivery_key;index" bson:"date" json:"date"`
	Shift        Shift     `gorm:"size:10;not null;uniqueIndex:idx_delivery_key" bson:"shift" json:"shift"`
	Quota        float64   `gorm:"not null" bson:"quota" json:"quota"`
	ActualAmount float64   `gorm:"not null" bson:"actualAmount" json:"actualAmount"`
	Delivered    bool      `gorm:"not null;index" bson:"delivered" json:"delivered"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TableName pins the table name for both dialects.
func (Delivery) TableName() string {
	return "deliveries"
}

// DeliveryKey is the uniqueness triple of a delivery row.
type DeliveryKey struct {
	CustomerID string
	Date       string
	Shift      Shift
}

// DeliveryUpsert carries the values written by an upsert. Quota is only
// stored when the row is created; Notes is left untouched when nil.
type DeliveryUpsert struct {
	Key          DeliveryKey
	Quota        float64
	ActualAmount float64
	Delivered    bool
	Notes        *string
}

// DeliveryFilter narrows delivery queries. Empty fields mean "any".
type DeliveryFilter struct {
	CustomerIDs []string
	Date        string
	StartDate   string
	EndDate     string
	Shift       Shift
	Delivered   *bool
}

// LedgerRow is one line of the per-shift delivery sheet: an existing delivery
// or a zero-valued placeholder for an active customer without one.
type LedgerRow struct {
	ID           string           `json:"id,omitempty"`
	CustomerID   string           `json:"customerId"`
	CustomerName string           `json:"customerName"`
	Address      string           `json:"address"`
	Phone        string           `json:"phone,omitempty"`
	Category     CustomerCategory `json:"category"`
	Date         string           `json:"date"`
	Shift        Shift            `json:"shift"`
	Quota        float64          `json:"quota"`
	ActualAmount float64          `json:"actualAmount"`
	Delivered    bool             `json:"delivered"`
	Notes        string           `json:"notes,omitempty"`
	Exists       bool             `json:"exists"`
}

// DeliveryEntry is one line of a bulk update.
type DeliveryEntry struct {
	CustomerID   string  `json:"customerId" binding:"required"`
	ActualAmount float64 `json:"actualAmount" binding:"gte=0"`
	Delivered    bool    `json:"delivered"`
	Notes        *string `json:"notes"`
}

// BulkResult reports the outcome of a bulk update.
type BulkResult struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// DeliveryInput is the payload of a single delivery upsert.
type DeliveryInput struct {
	CustomerID   string  `json:"customerId" binding:"required"`
	Date         string  `json:"date" binding:"required,day"`
	Shift        string  `json:"shift" binding:"required,shift"`
	ActualAmount float64 `json:"actualAmount" binding:"gte=0"`
	Delivered    bool    `json:"delivered"`
	Notes        *string `json:"notes"`
}

// ShiftRequest names one date and shift of the ledger.
type ShiftRequest struct {
	Date  string `json:"date" form:"date" binding:"required,day"`
	Shift string `json:"shift" form:"shift" binding:"required,shift"`
}

// BulkDeliveryInput is the payload of a bulk update.
type BulkDeliveryInput struct {
	ShiftRequest
	Entries []DeliveryEntry `json:"entries" binding:"required,dive"`
}
