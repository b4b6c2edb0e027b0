package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-shop-server/internal/database"
	"go-shop-server/internal/models"
	"go-shop-server/internal/pricing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- GET: Active discounts ---
func GetDiscounts(c *gin.Context) {
	var discounts []models.Discount
	if err := database.DB.Where("is_active = ?", true).Find(&discounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch discounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "discounts": discounts})
}

type CreateDiscountRequest struct {
	Name      string    `json:"discount_name" binding:"required"`
	Type      string    `json:"discount_type" binding:"required"`
	Value     float64   `json:"discount_value" binding:"required,gt=0"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// --- POST: Create a discount ---
func CreateDiscount(c *gin.Context) {
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input"})
		return
	}

	if req.Type != models.DiscountPercentage && req.Type != models.DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Discount type must be 'percentage' or 'fixed'"})
		return
	}
	if req.Type == models.DiscountPercentage && req.Value > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Percentage discount cannot exceed 100"})
		return
	}
	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "End date must be after start date"})
		return
	}

	discount := models.Discount{
		Name:      req.Name,
		Type:      req.Type,
		Value:     req.Value,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
	}
	if err := database.DB.Create(&discount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create discount"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "discount": discount})
}

type TagProductsRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required,min=1"`
}

// --- POST: Put products on sale under a discount ---
// For every product: record the current price in the price log (the
// source of truth the expiry reconciler restores from), then overwrite
// the product's price with the discounted one and flag it on sale.
func ApplyDiscountToProducts(c *gin.Context) {
	discountID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid discount ID"})
		return
	}

	var req TagProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product IDs are required"})
		return
	}

	var conflict string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var discount models.Discount
		if err := tx.First(&discount, discountID).Error; err != nil {
			return err
		}
		// Products go on sale the moment their price is overwritten, so
		// tagging is only allowed while the discount window is open.
		if !pricing.Effective(discount, time.Now()) {
			conflict = "Discount is not currently effective"
			return errDiscountConflict
		}

		for _, pid := range req.ProductIDs {
			var product models.Product
			if err := tx.First(&product, pid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					conflict = fmt.Sprintf("Product %d not found", pid)
					return errDiscountConflict
				}
				return err
			}
			if product.OnSale {
				conflict = fmt.Sprintf("Product %q is already on sale", product.Name)
				return errDiscountConflict
			}

			entry := models.ProductPriceLog{
				ProductID:       product.ID,
				DiscountID:      discount.ID,
				OriginalPrice:   product.Price,
				DiscountedPrice: pricing.Round(pricing.Discounted(product.Price, discount)),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			product.Price = entry.DiscountedPrice
			product.OnSale = true
			if err := tx.Select("Price", "OnSale").Save(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if errors.Is(err, errDiscountConflict) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": conflict})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Discount not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to apply discount"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Discount applied"})
}

var errDiscountConflict = errors.New("discount conflict")
