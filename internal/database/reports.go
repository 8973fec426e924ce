package database

import (
	"salon-pos/internal/analytics"
	"salon-pos/internal/models"
)

// SalesTotals holds the quick numbers the assistant answers with
type SalesTotals struct {
	TotalRevenue  int64 `json:"total_revenue"`
	CheckoutCount int64 `json:"checkout_count"`
	LineItemCount int64 `json:"line_item_count"`
}

// GetSalesTotals sums sales between two business dates (inclusive) in SQL.
func GetSalesTotals(rng analytics.DateRange) (*SalesTotals, error) {
	var result SalesTotals
	start, end := analytics.FormatDate(rng.Start), analytics.FormatDate(rng.End)

	// 1. Calculate Revenue
	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := DB.Model(&models.Sale{}).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	// 2. Count checkouts
	err = DB.Model(&models.Sale{}).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Count(&result.CheckoutCount).Error
	if err != nil {
		return nil, err
	}

	// 3. Count line items
	err = DB.Model(&models.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date BETWEEN ? AND ?", start, end).
		Count(&result.LineItemCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
