package models

import "time"

// Payment is money received from a customer against a monthly bill.
type Payment struct {
	ID         string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CustomerID string    `gorm:"size:36;not null;index" bson:"customerId" json:"customerId"`
	Amount     float64   `gorm:"not null" bson:"amount" json:"amount"`
	Date       string    `gorm:"size:10;not null" bson:"date" json:"date"`
	Month      int       `gorm:"not null;index:idx_payment_period" bson:"month" json:"month"`
	Year       int       `gorm:"not null;index:idx_payment_period" bson:"year" json:"year"`
	Remarks    string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PaymentInput is the payload for recording a payment.
type PaymentInput struct {
	CustomerID string  `json:"customerId" binding:"required"`
	Amount     float64 `json:"amount" binding:"gt=0"`
	Date       string  `json:"date" binding:"omitempty,day"`
	Month      int     `json:"month" binding:"required,min=1,max=12"`
	Year       int     `json:"year" binding:"required,min=2000"`
	Remarks    string  `json:"remarks"`
}

// PaymentFilter narrows payment listings. Zero values mean "any".
type PaymentFilter struct {
	CustomerID string
	Month      int
	Year       int
}
