package handlers

import (
	"context"
	"net/http"

	"salon-pos/internal/analytics"
	"salon-pos/internal/config"
	"salon-pos/internal/database"
	"salon-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: Sales list with period filter, search and sort ---
func ListSales(c *gin.Context) {
	// 1. Parse the view state from the query string
	rng, err := rangeFromQuery(c)
	if err != nil {
		abortWithError(c, "ListSales", err)
		return
	}
	key, err := analytics.ParseSalesSortKey(c.Query("sort"))
	if err != nil {
		abortWithError(c, "ListSales", err)
		return
	}
	order, err := analytics.ParseSortOrder(c.Query("order"))
	if err != nil {
		abortWithError(c, "ListSales", err)
		return
	}

	// 2. Load everything; the chips above the list always cover all sales
	all, err := database.ListSales()
	if err != nil {
		abortWithError(c, "ListSales", err)
		return
	}

	// 3. Filter and sort
	sales := analytics.QuerySales(all, analytics.SalesQuery{
		Range:  rng,
		Search: c.Query("search"),
		Sort:   key,
		Order:  order,
	})

	c.JSON(http.StatusOK, gin.H{
		"range":   rng,
		"count":   len(sales),
		"sales":   sales,
		"summary": analytics.Summarize(all, now()),
	})
}

func GetSale(c *gin.Context) {
	sale, err := database.GetSale(c.Param("id"))
	if err != nil {
		abortWithError(c, "GetSale", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// --- POST: Record a checkout ---
func CreateSale(c *gin.Context) {
	var input SaleRequest

	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	// 2. Save to DB
	sale := input.toModel()
	if err := database.CreateSale(&sale); err != nil {
		abortWithError(c, "CreateSale", err)
		return
	}

	// 3. Mirror to the spreadsheet without holding up the register
	pushSale(sale)

	c.JSON(http.StatusCreated, sale)
}

// --- PUT: Replace a sale (items included) ---
func UpdateSale(c *gin.Context) {
	var input SaleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	sale := input.toModel()
	if err := database.UpdateSale(c.Param("id"), &sale); err != nil {
		abortWithError(c, "UpdateSale", err)
		return
	}

	pushSale(sale)

	c.JSON(http.StatusOK, sale)
}

func DeleteSale(c *gin.Context) {
	if err := database.DeleteSale(c.Param("id")); err != nil {
		abortWithError(c, "DeleteSale", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted"})
}

// --- DELETE: Wipe every sale (admin only) ---
func DeleteAllSales(c *gin.Context) {
	n, err := database.DeleteAllSales()
	if err != nil {
		abortWithError(c, "DeleteAllSales", err)
		return
	}

	config.LogInfo(logger, "handlers", "DeleteAllSales", "all sales deleted", gin.H{
		"deleted": n,
		"by":      c.GetString("username"),
	})
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// pushSale sends one sale to the spreadsheet in the background.
func pushSale(sale models.Sale) {
	r := remote
	if r == nil {
		return
	}
	timeout := sheetsTimeout()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := r.SaveSale(ctx, sale); err != nil {
			config.LogError(logger, "handlers", "pushSale", "sheets save failed", sale.ID, err)
		}
	}()
}
