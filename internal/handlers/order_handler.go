package handlers

import (
	"net/http"

	"go-shop-server/internal/database"
	"go-shop-server/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: The authenticated user's order history ---
func GetMyOrders(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var orders []models.Order
	err := database.DB.
		Preload("Transaction").
		Preload("Address").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// --- GET: Every order in the store (admin) ---
func GetAllOrders(c *gin.Context) {
	var orders []models.Order
	err := database.DB.
		Preload("Transaction").
		Preload("Address").
		Preload("Items.Product").
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}
