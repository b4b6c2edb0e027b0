package handlers

import (
	"net/http"

	"go-shop-server/internal/checkout"
	"go-shop-server/internal/database"
	"go-shop-server/internal/models"

	"github.com/gin-gonic/gin"
)

// --- POST: Checkout ---
// Converts the submitted cart into a durable order. All the heavy
// lifting happens inside the engine's single database transaction.
func ProcessCheckout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	// The engine trusts the authenticated user, never the body.
	req.UserID = c.MustGet("userID").(uint)

	receipt, err := checkout.NewEngine(database.DB).Checkout(req)
	if err != nil {
		switch {
		case checkout.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case checkout.IsDomainConflict(err):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		default:
			// Unexpected failure: the transaction rolled back in full.
			// Detail stays out of the response outside debug mode.
			body := gin.H{"success": false, "message": "An error occurred during checkout. Please try again."}
			if gin.Mode() != gin.ReleaseMode {
				body["error"] = err.Error()
			}
			c.JSON(http.StatusInternalServerError, body)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Checkout completed successfully",
		"orderId":       receipt.OrderID,
		"transactionId": receipt.TransactionID,
		"referenceCode": receipt.ReferenceCode,
		"totalAmount":   receipt.TotalAmount,
		"currency":      receipt.Currency,
		"itemCount":     receipt.ItemCount,
	})
}

// --- GET: Exchange rates ---
func GetExchangeRates(c *gin.Context) {
	var rates []models.Currency
	if err := database.DB.Order("currency_code").Find(&rates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch exchange rates"})
		return
	}

	// Map form for easier lookup on the client
	ratesObject := make(map[string]float64, len(rates))
	for _, r := range rates {
		ratesObject[r.CurrencyCode] = r.ExchangeRateToBase
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "rates": ratesObject})
}

// --- GET: Available currencies ---
func GetAvailableCurrencies(c *gin.Context) {
	var currencies []models.CurrencyCode
	if err := database.DB.Order("name").Find(&currencies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch available currencies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "currencies": currencies})
}

// --- GET: The user's saved shipping addresses ---
func GetUserAddresses(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var addresses []models.Address
	err := database.DB.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user addresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
}
