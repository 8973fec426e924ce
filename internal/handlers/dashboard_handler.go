package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/database"

	"github.com/gin-gonic/gin"
)

// GetDashboard builds the whole dashboard for a month window.
// Query: start_month, end_month (YYYY-MM) or preset, limit, sort, order, year.
func GetDashboard(c *gin.Context) {
	req, err := dashboardRequest(c)
	if err != nil {
		abortWithError(c, "GetDashboard", err)
		return
	}

	records, err := database.ListSales()
	if err != nil {
		abortWithError(c, "GetDashboard", err)
		return
	}

	dash, err := analytics.BuildDashboard(records, req, now())
	if err != nil {
		abortWithError(c, "GetDashboard", err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func dashboardRequest(c *gin.Context) (analytics.DashboardRequest, error) {
	req := analytics.DashboardRequest{
		Preset:       analytics.MonthPreset(c.Query("preset")),
		RankingLimit: rankingLimit(),
	}

	months, err := monthsFromQuery(c)
	if err != nil {
		return req, err
	}
	req.Months = months

	if req.DailySort, err = analytics.ParseDailySortKey(c.Query("sort")); err != nil {
		return req, err
	}
	if req.DailyOrder, err = analytics.ParseSortOrder(c.Query("order")); err != nil {
		return req, err
	}
	if req.RankingLimit, err = intQuery(c, "limit", req.RankingLimit); err != nil {
		return req, err
	}
	if req.Year, err = intQuery(c, "year", 0); err != nil {
		return req, err
	}
	return req, nil
}

// --- GET: One ranking over a day range ---
func GetRankings(c *gin.Context) {
	// 1. Parse the dimension and the range
	dim, err := analytics.ParseDimension(c.Param("dimension"))
	if err != nil {
		abortWithError(c, "GetRankings", err)
		return
	}
	rng, err := rangeFromQuery(c)
	if err != nil {
		abortWithError(c, "GetRankings", err)
		return
	}
	limit, err := intQuery(c, "limit", rankingLimit())
	if err != nil {
		abortWithError(c, "GetRankings", err)
		return
	}

	// 2. Load only the range from the store
	records, err := database.LoadSalesInRange(rng)
	if err != nil {
		abortWithError(c, "GetRankings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dimension": dim,
		"range":     rng,
		"entries":   analytics.Rank(records, dim, limit),
	})
}

func GetYearlyChart(c *gin.Context) {
	year, err := intQuery(c, "year", now().Year())
	if err != nil {
		abortWithError(c, "GetYearlyChart", err)
		return
	}
	records, err := database.ListSales()
	if err != nil {
		abortWithError(c, "GetYearlyChart", err)
		return
	}
	c.JSON(http.StatusOK, analytics.YearlyChart(records, year))
}

func GetMonthlyChart(c *gin.Context) {
	month := analytics.MonthOf(now())
	if s := c.Query("month"); s != "" {
		m, err := analytics.ParseMonth(s)
		if err != nil {
			abortWithError(c, "GetMonthlyChart", err)
			return
		}
		month = m
	}

	records, err := database.LoadSalesInRange(month.Dates())
	if err != nil {
		abortWithError(c, "GetMonthlyChart", err)
		return
	}
	c.JSON(http.StatusOK, analytics.MonthlyChart(records, month))
}

// GetSummary returns the today / this week / this month chips.
func GetSummary(c *gin.Context) {
	records, err := database.ListSales()
	if err != nil {
		abortWithError(c, "GetSummary", err)
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(records, now()))
}

// --- GET: Japanese public holidays of a month, or of a whole year ---
func GetHolidays(c *gin.Context) {
	year, err := intQuery(c, "year", now().Year())
	if err != nil {
		abortWithError(c, "GetHolidays", err)
		return
	}
	month, err := intQuery(c, "month", 0)
	if err != nil {
		abortWithError(c, "GetHolidays", err)
		return
	}
	if month < 0 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return
	}

	months := []time.Month{time.Month(month)}
	if month == 0 {
		months = months[:0]
		for m := time.January; m <= time.December; m++ {
			months = append(months, m)
		}
	}

	dates := []string{}
	for _, m := range months {
		for _, d := range analytics.HolidaysInMonth(year, m) {
			dates = append(dates, analytics.FormatDate(d))
		}
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "holidays": dates})
}

// intQuery reads an integer parameter, falling back to def when absent.
func intQuery(c *gin.Context, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, key, s)
	}
	return n, nil
}
