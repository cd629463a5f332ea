package models

import "time"

// DailySummary is the end-of-day snapshot persisted by the scheduler.
type DailySummary struct {
	Date             string    `gorm:"primaryKey;size:10" bson:"_id" json:"date"`
	LitersDelivered  float64   `bson:"litersDelivered" json:"litersDelivered"`
	MorningLiters    float64   `bson:"morningLiters" json:"morningLiters"`
	EveningLiters    float64   `bson:"eveningLiters" json:"eveningLiters"`
	Revenue          float64   `bson:"revenue" json:"revenue"`
	StockIn          float64   `bson:"stockIn" json:"stockIn"`
	CurrentInventory float64   `bson:"currentInventory" json:"currentInventory"`
	ActiveCustomers  int       `bson:"activeCustomers" json:"activeCustomers"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// TableName pins the table name for both dialects.
func (DailySummary) TableName() string {
	return "daily_summaries"
}

// DailyBreakdown is one day of a customer's monthly bill.
type DailyBreakdown struct {
	Date          string  `json:"date"`
	MorningAmount float64 `json:"morningAmount"`
	EveningAmount float64 `json:"eveningAmount"`
	TotalAmount   float64 `json:"totalAmount"`
}

// CustomerBill is the monthly summary for one customer.
type CustomerBill struct {
	CustomerID     string           `json:"customerId"`
	CustomerName   string           `json:"customerName"`
	Phone          string           `json:"phone,omitempty"`
	Category       CustomerCategory `json:"category"`
	PricePerLiter  float64          `json:"pricePerLiter"`
	TotalLiters    float64          `json:"totalLiters"`
	TotalAmount    float64          `json:"totalAmount"`
	PaidAmount     float64          `json:"paidAmount"`
	BalanceDue     float64          `json:"balanceDue"`
	DeliveryDays   int              `json:"deliveryDays"`
	DailyBreakdown []DailyBreakdown `json:"dailyBreakdown"`
}

// MonthlyBilling is the bill run for every active customer.
type MonthlyBilling struct {
	Month       int            `json:"month"`
	Year        int            `json:"year"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Customers   []CustomerBill `json:"customers"`
	TotalLiters float64        `json:"totalLiters"`
	TotalAmount float64        `json:"totalAmount"`
	TotalPaid   float64        `json:"totalPaid"`
}

// InvoiceLine is one day on a printed invoice.
type InvoiceLine struct {
	Date    string  `json:"date"`
	Morning float64 `json:"morning"`
	Evening float64 `json:"evening"`
	Total   float64 `json:"total"`
}

// InvoiceCustomer carries the contact block of an invoice.
type InvoiceCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}

// Invoice is a customer's monthly bill reshaped for presentation.
type Invoice struct {
	InvoiceNumber  string          `json:"invoiceNumber"`
	Customer       InvoiceCustomer `json:"customer"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Period         string          `json:"period"`
	Lines          []InvoiceLine   `json:"lines"`
	TotalLiters    float64         `json:"totalLiters"`
	PricePerLiter  float64         `json:"pricePerLiter"`
	TotalAmount    float64         `json:"totalAmount"`
	PaidAmount     float64         `json:"paidAmount"`
	BalanceDue     float64         `json:"balanceDue"`
	BusinessName   string          `json:"businessName"`
	BusinessPhone  string          `json:"businessPhone,omitempty"`
	CurrencySymbol string          `json:"currencySymbol"`
	PaymentTerms   string          `json:"paymentTerms,omitempty"`
}

// Revenue is today's estimated income.
type Revenue struct {
	Date   string  `json:"date"`
	Liters float64 `json:"liters"`
	Amount float64 `json:"amount"`
}

// DayTotal is one point of the weekly trend.
type DayTotal struct {
	Date   string  `json:"date"`
	Day    string  `json:"day"`
	Liters float64 `json:"liters"`
}

// DashboardStats is the composed landing-page view.
type DashboardStats struct {
	Date              string          `json:"date"`
	CurrentShift      Shift           `json:"currentShift"`
	TodayLiters       float64         `json:"todayLiters"`
	TodayRevenue      float64         `json:"todayRevenue"`
	ActiveCustomers   int             `json:"activeCustomers"`
	Inventory         InventoryStatus `json:"inventory"`
	PendingDeliveries int             `json:"pendingDeliveries"`
	WeeklyTrend       []DayTotal      `json:"weeklyTrend"`
}

// Comparison contrasts today's delivered liters with yesterday's.
type Comparison struct {
	Today            float64 `json:"today"`
	Yesterday        float64 `json:"yesterday"`
	Difference       float64 `json:"difference"`
	PercentageChange float64 `json:"percentageChange"`
}
