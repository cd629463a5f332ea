package models

import "time"

// SettingsID is the key of the single settings record.
const SettingsID = "default"

// Settings holds the business identity and billing defaults.
type Settings struct {
	ID                   string    `gorm:"primaryKey;size:36" bson:"_id" json:"-"`
	BusinessName         string    `bson:"businessName" json:"businessName"`
	OwnerName            string    `bson:"ownerName" json:"ownerName"`
	Address              string    `bson:"address" json:"address"`
	Phone                string    `bson:"phone" json:"phone"`
	Email                string    `bson:"email" json:"email"`
	DefaultPricePerLiter float64   `bson:"defaultPricePerLiter" json:"defaultPricePerLiter"`
	Currency             string    `bson:"currency" json:"currency"`
	CurrencySymbol       string    `bson:"currencySymbol" json:"currencySymbol"`
	MaxCapacity          float64   `bson:"maxCapacity" json:"maxCapacity"`
	PaymentTerms         string    `bson:"paymentTerms" json:"paymentTerms"`
	UpdatedAt            time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultSettings returns the values used before the owner edits anything.
func DefaultSettings() Settings {
	return Settings{
		ID:                   SettingsID,
		BusinessName:         "Milk Delivery",
		DefaultPricePerLiter: 60,
		Currency:             "INR",
		CurrencySymbol:       "₹",
		MaxCapacity:          2000,
		PaymentTerms:         "Payment due within 7 days of bill date",
	}
}

// SettingsInput is a partial settings update.
type SettingsInput struct {
	BusinessName         *string  `json:"businessName"`
	OwnerName            *string  `json:"ownerName"`
	Address              *string  `json:"address"`
	Phone                *string  `json:"phone"`
	Email                *string  `json:"email"`
	DefaultPricePerLiter *float64 `json:"defaultPricePerLiter" binding:"omitempty,gte=0"`
	Currency             *string  `json:"currency"`
	CurrencySymbol       *string  `json:"currencySymbol"`
	MaxCapacity          *float64 `json:"maxCapacity" binding:"omitempty,gt=0"`
	PaymentTerms         *string  `json:"paymentTerms"`
}

// Apply copies the provided fields onto s.
func (in SettingsInput) Apply(s *Settings) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&s.BusinessName, in.BusinessName)
	setString(&s.OwnerName, in.OwnerName)
	setString(&s.Address, in.Address)
	setString(&s.Phone, in.Phone)
	setString(&s.Email, in.Email)
	setString(&s.Currency, in.Currency)
	setString(&s.CurrencySymbol, in.CurrencySymbol)
	setString(&s.PaymentTerms, in.PaymentTerms)
	if in.DefaultPricePerLiter != nil {
		s.DefaultPricePerLiter = *in.DefaultPricePerLiter
	}
	if in.MaxCapacity != nil {
		s.MaxCapacity = *in.MaxCapacity
	}
}

// TableName pins the table name for both dialects.
func (Settings) TableName() string {
	return "settings"
}
