package checkout

import (
	"go-shop-server/internal/models"
	"go-shop-server/internal/pricing"

	"gorm.io/gorm"
)

// assemble persists the checkout inside the ambient transaction: one
// Transaction row, one Order row, one OrderItem per validated line, then
// clears the user's cart. Caller rolls everything back on error.
func (e *Engine) assemble(tx *gorm.DB, req Request, addressID uint, lines []validatedLine) (*Receipt, error) {
	var total float64
	for _, line := range lines {
		total += line.PriceAtOrder * float64(line.Quantity)
	}
	total = pricing.Round(total)

	refCode, err := nextReferenceCode(tx, e.Now())
	if err != nil {
		return nil, err
	}

	trx := models.Transaction{
		ID:            e.NewID(),
		UserID:        req.UserID,
		Amount:        total,
		Status:        models.StatusPaymentPending,
		PaymentMode:   req.PaymentMode,
		CurrencyCode:  req.CurrencyCode,
		ReferenceCode: refCode,
	}
	if err := tx.Create(&trx).Error; err != nil {
		return nil, err
	}

	order := models.Order{
		ID:            e.NewID(),
		UserID:        req.UserID,
		TotalAmount:   total,
		TransactionID: trx.ID,
		AddressID:     addressID,
		Status:        "pending",
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ID:           e.NewID(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			PriceAtOrder: line.PriceAtOrder,
		})
	}
	if err := tx.Create(&items).Error; err != nil {
		return nil, err
	}

	if err := e.Carts.ClearCart(tx, req.UserID); err != nil {
		return nil, err
	}

	return &Receipt{
		OrderID:       order.ID,
		TransactionID: trx.ID,
		ReferenceCode: refCode,
		TotalAmount:   total,
		Currency:      req.CurrencyCode,
		ItemCount:     len(items),
	}, nil
}
