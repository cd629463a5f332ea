package models

import (
	"strings"
	"time"
)

// CustomerCategory distinguishes fixed-quota households from on-demand buyers.
type CustomerCategory string

const (
	CategoryRegular  CustomerCategory = "REGULAR"
	CategoryVariable CustomerCategory = "VARIABLE"
)

// ParseCategory normalizes a category string. The boolean is false for
// values outside REGULAR/VARIABLE.
func ParseCategory(value string) (CustomerCategory, bool) {
	switch CustomerCategory(strings.ToUpper(strings.TrimSpace(value))) {
	case CategoryRegular:
		return CategoryRegular, true
	case CategoryVariable:
		return CategoryVariable, true
	default:
		return "", false
	}
}

// Customer is a milk delivery subscriber.
type Customer struct {
	ID            string           `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name          string           `gorm:"not null;index" bson:"name" json:"name"`
	Address       string           `gorm:"not null" bson:"address" json:"address"`
	Phone         string           `bson:"phone,omitempty" json:"phone,omitempty"`
	Category      CustomerCategory `gorm:"not null" bson:"category" json:"category"`
	MorningQuota  float64          `gorm:"not null" bson:"morningQuota" json:"morningQuota"`
	EveningQuota  float64          `gorm:"not null" bson:"eveningQuota" json:"eveningQuota"`
	PricePerLiter float64          `gorm:"not null" bson:"pricePerLiter" json:"pricePerLiter"`
	IsActive      bool             `gorm:"not null;index" bson:"isActive" json:"isActive"`
	CreatedAt     time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// QuotaFor returns the customer's default amount for the given shift.
func (c Customer) QuotaFor(shift Shift) float64 {
	if shift == ShiftEvening {
		return c.EveningQuota
	}
	return c.MorningQuota
}

// Validate checks the numeric invariants shared by create and update.
func (c Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return NewValidationError("name is required")
	case strings.TrimSpace(c.Address) == "":
		return NewValidationError("address is required")
	case c.MorningQuota < 0 || c.EveningQuota < 0:
		return NewValidationError("quotas must not be negative")
	case c.PricePerLiter < 0:
		return NewValidationError("pricePerLiter must not be negative")
	}
	if _, ok := ParseCategory(string(c.Category)); !ok {
		return NewValidationError("invalid category %q", c.Category)
	}
	return nil
}

// CustomerFilter narrows customer listings. Nil pointers mean "any".
type CustomerFilter struct {
	Category *CustomerCategory
	Active   *bool
	Search   string
	IDs      []string
}

// CustomerInput carries a create or partial-update request.
type CustomerInput struct {
	Name          *string  `json:"name"`
	Address       *string  `json:"address"`
	Phone         *string  `json:"phone"`
	Category      *string  `json:"category" binding:"omitempty,category"`
	MorningQuota  *float64 `json:"morningQuota" binding:"omitempty,gte=0"`
	EveningQuota  *float64 `json:"eveningQuota" binding:"omitempty,gte=0"`
	PricePerLiter *float64 `json:"pricePerLiter" binding:"omitempty,gte=0"`
	IsActive      *bool    `json:"isActive"`
}

// Apply copies the provided fields onto c.
func (in CustomerInput) Apply(c *Customer) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Category != nil {
		if category, ok := ParseCategory(*in.Category); ok {
			c.Category = category
		} else {
			c.Category = CustomerCategory(*in.Category)
		}
	}
	if in.MorningQuota != nil {
		c.MorningQuota = *in.MorningQuota
	}
	if in.EveningQuota != nil {
		c.EveningQuota = *in.EveningQuota
	}
	if in.PricePerLiter != nil {
		c.PricePerLiter = *in.PricePerLiter
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}
