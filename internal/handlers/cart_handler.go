package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-shop-server/internal/database"
	"go-shop-server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddToCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// --- POST: Add an item to the cart ---
// The cart is created lazily on first add; adding a product already in
// the cart merges the quantities and refreshes the price snapshot.
func AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID and a valid quantity are required"})
		return
	}

	userID := c.MustGet("userID").(uint)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			return err
		}
		if !product.IsActive {
			return gorm.ErrRecordNotFound
		}

		// 1. Get or create the user's cart
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}

		// 2. Merge with an existing line or insert a new one
		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		if err == nil {
			item.Quantity += req.Quantity
			item.PriceAtAddition = product.Price
			return tx.Save(&item).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item = models.CartItem{
			CartID:          cart.ID,
			ProductID:       req.ProductID,
			Quantity:        req.Quantity,
			PriceAtAddition: product.Price, // Snapshot at add-time
		}
		return tx.Create(&item).Error
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found or not available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add item to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item added to cart"})
}

// --- GET: List the user's cart ---
func GetCart(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var cart models.Cart
	err := database.DB.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No cart yet - an empty cart, not an error
		c.JSON(http.StatusOK, gin.H{"success": true, "items": []models.CartItem{}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": cart.Items})
}

// --- DELETE: Remove one product from the cart ---
func RemoveCartItem(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	var cart models.Cart
	if err := database.DB.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	res := database.DB.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart"})
}
