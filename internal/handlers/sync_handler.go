package handlers

import (
	"context"
	"errors"
	"net/http"

	"salon-pos/internal/analytics"
	"salon-pos/internal/config"
	"salon-pos/internal/database"
	"salon-pos/internal/sheets"

	"github.com/gin-gonic/gin"
)

// requireRemote answers 503 when no spreadsheet is configured.
func requireRemote(c *gin.Context) bool {
	if remote == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": sheets.ErrNotConfigured.Error()})
		return false
	}
	return true
}

func syncContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), sheetsTimeout())
}

// remoteFailed logs a sheets error and answers 502 with the remote message.
func remoteFailed(c *gin.Context, funcName string, err error) {
	config.LogError(logger, "handlers", funcName, "sheets request failed", nil, err)
	var re *sheets.RemoteError
	if errors.As(err, &re) {
		c.JSON(http.StatusBadGateway, gin.H{"error": re.Message, "action": re.Action})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// --- POST: Send every local sale to the spreadsheet ---
func PushToSheets(c *gin.Context) {
	if !requireRemote(c) {
		return
	}

	// 1. Load everything
	sales, err := database.ListSales()
	if err != nil {
		abortWithError(c, "PushToSheets", err)
		return
	}

	// 2. Overwrite the sheet
	ctx, cancel := syncContext(c)
	defer cancel()
	if err := remote.Import(ctx, sales); err != nil {
		remoteFailed(c, "PushToSheets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pushed": len(sales)})
}

// --- POST: Replace the local store with the spreadsheet contents ---
func PullFromSheets(c *gin.Context) {
	if !requireRemote(c) {
		return
	}

	// 1. Fetch the raw rows
	ctx, cancel := syncContext(c)
	defer cancel()
	raw, err := remote.Load(ctx)
	if err != nil {
		remoteFailed(c, "PullFromSheets", err)
		return
	}

	// 2. Clean them up; rows without an id or a date are dropped
	sales, dropped := analytics.Normalize(raw)

	// 3. Swap the local store
	n, err := database.ReplaceAllSales(sales)
	if err != nil {
		abortWithError(c, "PullFromSheets", err)
		return
	}

	config.LogInfo(logger, "handlers", "PullFromSheets", "store replaced from sheets", gin.H{
		"loaded":  n,
		"dropped": dropped,
	})
	c.JSON(http.StatusOK, gin.H{"loaded": n, "dropped": dropped})
}

func ClearSheets(c *gin.Context) {
	if !requireRemote(c) {
		return
	}
	ctx, cancel := syncContext(c)
	defer cancel()
	if err := remote.Clear(ctx); err != nil {
		remoteFailed(c, "ClearSheets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spreadsheet cleared"})
}

// TestSheets checks that the script answers.
func TestSheets(c *gin.Context) {
	if !requireRemote(c) {
		return
	}
	ctx, cancel := syncContext(c)
	defer cancel()
	info, err := remote.Ping(ctx)
	if err != nil {
		remoteFailed(c, "TestSheets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "remote": info})
}
