package handlers

import (
	"bytes"
	"net/http"

	"salon-pos/internal/analytics"
	"salon-pos/internal/database"
	"salon-pos/internal/export"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCSV downloads the line items of a day range (all sales by default).
func ExportCSV(c *gin.Context) {
	// 1. Range: everything unless the caller narrows it
	rng := analytics.AllTime()
	if c.Query("period") != "" || c.Query("start") != "" || c.Query("end") != "" {
		r, err := rangeFromQuery(c)
		if err != nil {
			abortWithError(c, "ExportCSV", err)
			return
		}
		rng = r
	}

	// 2. Load in date order
	records, err := database.LoadSalesInRange(rng)
	if err != nil {
		abortWithError(c, "ExportCSV", err)
		return
	}
	sales := analytics.QuerySales(records, analytics.SalesQuery{
		Range: rng,
		Sort:  analytics.SortSalesByDate,
		Order: analytics.Asc,
	})

	// 3. Render before writing headers so a failure can still answer 500
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sales); err != nil {
		abortWithError(c, "ExportCSV", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(now(), "csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel downloads a workbook for a dashboard month window.
func ExportExcel(c *gin.Context) {
	// 1. Same window rules as the dashboard
	window, err := exportWindow(c)
	if err != nil {
		abortWithError(c, "ExportExcel", err)
		return
	}
	rng := window.Dates()

	// 2. Load and aggregate
	records, err := database.LoadSalesInRange(rng)
	if err != nil {
		abortWithError(c, "ExportExcel", err)
		return
	}
	report := analytics.Aggregate(records, rng, analytics.WithRankingLimit(rankingLimit()))
	sales := analytics.QuerySales(records, analytics.SalesQuery{
		Range: rng,
		Sort:  analytics.SortSalesByDate,
		Order: analytics.Asc,
	})

	// 3. Render
	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, sales, report); err != nil {
		abortWithError(c, "ExportExcel", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(now(), "xlsx")+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func exportWindow(c *gin.Context) (analytics.MonthRange, error) {
	months, err := monthsFromQuery(c)
	if err != nil {
		return analytics.MonthRange{}, err
	}
	if months != nil {
		return *months, nil
	}
	if p := c.Query("preset"); p != "" {
		return analytics.ResolveMonths(analytics.MonthPreset(p), now())
	}
	cur := analytics.MonthOf(now())
	return analytics.MonthRange{Start: cur, End: cur}, nil
}
