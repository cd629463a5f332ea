package models

import "time"

// StockEntry captures milk received into inventory. Entries are append-only
// and only removed one at a time.
type StockEntry struct {
	ID         string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Date       string    `gorm:"size:10;not null;index" bson:"date" json:"date"`
	Shift      Shift     `gorm:"size:10;not null" bson:"shift" json:"shift"`
	Source     string    `gorm:"not null" bson:"source" json:"source"`
	SourceName string    `gorm:"not null" bson:"sourceName" json:"sourceName"`
	Quantity   float64   `gorm:"not null" bson:"quantity" json:"quantity"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// TableName pins the table name for both dialects.
func (StockEntry) TableName() string {
	return "stock_entries"
}

// StockInput is the payload for recording stock. Either SourceID or Source
// must be provided.
type StockInput struct {
	Date     string  `json:"date" binding:"required,day"`
	Shift    string  `json:"shift" binding:"required,shift"`
	SourceID string  `json:"sourceId"`
	Source   string  `json:"source"`
	Quantity float64 `json:"quantity" binding:"gt=0"`
	Notes    string  `json:"notes"`
}

// StockFilter narrows stock listings. Limit <= 0 means no limit.
type StockFilter struct {
	StartDate string
	EndDate   string
	Limit     int
}

// Source is a lookup entry naming where stock comes from.
type Source struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name      string    `gorm:"not null" bson:"name" json:"name"`
	NameKey   string    `gorm:"size:255;uniqueIndex" bson:"-" json:"-"`
	Type      string    `gorm:"not null" bson:"type" json:"type"`
	IsActive  bool      `gorm:"not null" bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SourceInput is the payload for creating or editing a source.
type SourceInput struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	IsActive *bool   `json:"isActive"`
}

// InventoryStatus is the running milk balance.
type InventoryStatus struct {
	TotalStock       float64 `json:"totalStock"`
	TotalDelivered   float64 `json:"totalDelivered"`
	CurrentInventory float64 `json:"currentInventory"`
	MaxCapacity      float64 `json:"maxCapacity"`
	Percentage       float64 `json:"percentage"`
	LowStock         bool    `json:"lowStock"`
}
