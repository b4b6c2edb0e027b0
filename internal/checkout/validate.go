package checkout

import (
	"errors"
	"fmt"

	"go-shop-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// validatedLine is a cart line that passed stock and eligibility checks,
// carrying the resolved unit price and the product name for messages.
type validatedLine struct {
	ProductID    uint
	ProductName  string
	Quantity     int
	PriceAtOrder float64
}

// lockForUpdate adds SELECT ... FOR UPDATE row locking where the dialect
// supports it. SQLite (used by tests) has no FOR UPDATE; its writes are
// serialized at the database level anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// validateLines checks every requested line against live inventory and
// product state, resolves its unit price in the requested currency, and
// decrements stock - all under a row lock on the product, inside the
// ambient transaction. Any single failure aborts the whole checkout.
func (e *Engine) validateLines(tx *gorm.DB, req Request) ([]validatedLine, error) {
	lines := make([]validatedLine, 0, len(req.CartItems))

	for _, item := range req.CartItems {
		var product models.Product

		// Lock the row: the stock check and the decrement must see the
		// same value, and concurrent checkouts must queue here.
		err := lockForUpdate(tx).First(&product, item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
		if err != nil {
			return nil, err
		}

		if !product.IsActive {
			return nil, fmt.Errorf("%w: %q", ErrProductInactive, product.Name)
		}

		if product.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("%w for %q. Available: %d, Requested: %d",
				ErrInsufficientStock, product.Name, product.StockQuantity, item.Quantity)
		}

		price, err := e.Prices.UnitPrice(tx, product, req.CurrencyCode)
		if err != nil {
			return nil, err
		}

		// Deduct stock now, under the same lock that validated it.
		// A product that sells out is taken off the shelf.
		product.StockQuantity -= item.Quantity
		if product.StockQuantity == 0 {
			product.IsActive = false
		}
		if err := tx.Select("StockQuantity", "IsActive").Save(&product).Error; err != nil {
			return nil, err
		}

		lines = append(lines, validatedLine{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     item.Quantity,
			PriceAtOrder: price,
		})
	}

	return lines, nil
}
