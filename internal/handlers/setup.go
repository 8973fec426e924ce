package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/config"
	"salon-pos/internal/database"
	"salon-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// Remote is the spreadsheet backend the sync endpoints talk to.
type Remote interface {
	SaveSale(ctx context.Context, sale models.Sale) error
	Import(ctx context.Context, sales []models.Sale) error
	Clear(ctx context.Context) error
	Load(ctx context.Context) ([]analytics.RawSale, error)
	Ping(ctx context.Context) (map[string]any, error)
}

var errBadQuery = errors.New("invalid query parameter")

var (
	cfg    *config.Config
	remote Remote
	logger = config.GetLogger()

	// clock overrides cfg.Now in tests
	clock func() time.Time
)

// Setup hands the handlers their configuration and the optional remote.
// A nil remote disables the sync endpoints and the push on save.
func Setup(c *config.Config, r Remote) {
	cfg = c
	remote = r
	RegisterValidators()
}

func now() time.Time {
	if clock != nil {
		return clock()
	}
	if cfg == nil {
		return time.Now()
	}
	return cfg.Now()
}

func sheetsTimeout() time.Duration {
	if cfg == nil || cfg.SheetsTimeout <= 0 {
		return 15 * time.Second
	}
	return cfg.SheetsTimeout
}

func rankingLimit() int {
	if cfg == nil {
		return analytics.DefaultRankingLimit
	}
	return cfg.RankingLimit
}

// isBadRequest reports whether err came from a malformed query parameter.
func isBadRequest(err error) bool {
	return errors.Is(err, errBadQuery) ||
		errors.Is(err, analytics.ErrInvalidRange) ||
		errors.Is(err, analytics.ErrUnknownPreset) ||
		errors.Is(err, analytics.ErrInvalidDate) ||
		errors.Is(err, analytics.ErrInvalidMonth) ||
		errors.Is(err, analytics.ErrUnknownDimension) ||
		errors.Is(err, analytics.ErrUnknownSortKey)
}

// abortWithError answers with the status matching err and logs server faults.
func abortWithError(c *gin.Context, funcName string, err error) {
	switch {
	case isBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrSaleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
	default:
		config.LogError(logger, "handlers", funcName, "request failed", c.Request.URL.String(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// rangeFromQuery reads period, start and end (YYYY-MM-DD).
func rangeFromQuery(c *gin.Context) (analytics.DateRange, error) {
	p, err := analytics.ParsePeriod(c.Query("period"), c.Query("start"), c.Query("end"))
	if err != nil {
		return analytics.DateRange{}, err
	}
	return analytics.Resolve(p, now())
}

// monthsFromQuery reads start_month and end_month (YYYY-MM). Both empty means nil.
func monthsFromQuery(c *gin.Context) (*analytics.MonthRange, error) {
	start, end := c.Query("start_month"), c.Query("end_month")
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}
	from, err := analytics.ParseMonth(start)
	if err != nil {
		return nil, err
	}
	to, err := analytics.ParseMonth(end)
	if err != nil {
		return nil, err
	}
	mr, err := analytics.NewMonthRange(from, to)
	if err != nil {
		return nil, err
	}
	return &mr, nil
}
