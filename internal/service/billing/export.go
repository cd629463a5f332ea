package billing

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

const (
	billingSheet = "Billing"
	dailySheet   = "Daily"
)

var (
	billingHeader = []any{"Customer", "Phone", "Category", "Delivery Days", "Liters", "Price/L", "Amount", "Paid", "Balance"}
	dailyHeader   = []any{"Customer", "Date", "Morning", "Evening", "Total"}
)

// ExportMonthly renders the month's bill run as an xlsx workbook.
func (s *Service) ExportMonthly(ctx context.Context, month, year int) ([]byte, string, error) {
	report, err := s.Monthly(ctx, month, year)
	if err != nil {
		return nil, "", err
	}

	data, err := renderWorkbook(report)
	if err != nil {
		return nil, "", fmt.Errorf("render billing workbook: %w", err)
	}
	return data, fmt.Sprintf("billing-%d-%02d.xlsx", report.Year, report.Month), nil
}

// BillingRows flattens a bill run into one row per customer, prefixed with
// the period. Used by the spreadsheet exports.
func BillingRows(report *models.MonthlyBilling) [][]any {
	period := fmt.Sprintf("%d-%02d", report.Year, report.Month)
	rows := make([][]any, 0, len(report.Customers))
	for _, c := range report.Customers {
		rows = append(rows, []any{
			period, c.CustomerName, c.Phone, string(c.Category), c.DeliveryDays,
			c.TotalLiters, c.PricePerLiter, c.TotalAmount, c.PaidAmount, c.BalanceDue,
		})
	}
	return rows
}

func renderWorkbook(report *models.MonthlyBilling) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", billingSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, err
	}

	if err := setRow(f, billingSheet, 1, billingHeader); err != nil {
		return nil, err
	}
	row := 2
	for _, values := range BillingRows(report) {
		if err := setRow(f, billingSheet, row, values[1:]); err != nil {
			return nil, err
		}
		row++
	}
	totals := []any{"Total", "", "", "", report.TotalLiters, "", report.TotalAmount, report.TotalPaid}
	if err := setRow(f, billingSheet, row, totals); err != nil {
		return nil, err
	}

	if err := setRow(f, dailySheet, 1, dailyHeader); err != nil {
		return nil, err
	}
	row = 2
	for _, c := range report.Customers {
		for _, day := range c.DailyBreakdown {
			values := []any{c.CustomerName, day.Date, day.MorningAmount, day.EveningAmount, day.TotalAmount}
			if err := setRow(f, dailySheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
