package handlers

import (
	"net/http"
	"strconv"

	"go-shop-server/internal/database"
	"go-shop-server/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: List the catalog ---
// By default only active products are shown; admins can pass ?all=true.
func GetProducts(c *gin.Context) {
	var products []models.Product

	q := database.DB
	if c.Query("all") != "true" {
		q = q.Where("is_active = ?", true)
	}

	if err := q.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// --- POST: Add a new product ---
func AddProduct(c *gin.Context) {
	var newProduct models.Product

	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input"})
		return
	}

	if newProduct.Price < 0 || newProduct.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price and stock quantity must not be negative"})
		return
	}

	if err := database.DB.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "product": newProduct})
}

// --- PUT: Update price, stock or active state ---
func UpdateProduct(c *gin.Context) {
	// 1. Get ID from URL (e.g., /products/5)
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	// 2. Find existing product
	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	// 3. We use a map so we only update what was sent (partial update)
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input"})
		return
	}

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// --- DELETE: Remove a product ---
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	// This usually fails if the product is linked to existing orders
	// (foreign key constraint), which is the audit trail working as intended.
	if err := database.DB.Delete(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not delete product. It might be linked to past orders."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}
