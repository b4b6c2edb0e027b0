package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go-shop-server/internal/models"

	"gorm.io/gorm"
)

// BaseCurrency is what every stored price and exchange rate is denominated in.
const BaseCurrency = "PHP"

// ErrCurrencyNotFound means a currency code is missing from the rate table.
var ErrCurrencyNotFound = errors.New("currency conversion not available")

// Discounted applies a discount to a base price.
// Percentage: price * (1 - value/100). Fixed: price - value.
// The result is floored at zero - a misconfigured fixed discount makes an
// item free, it never produces a negative price.
func Discounted(base float64, d models.Discount) float64 {
	var price float64
	switch d.Type {
	case models.DiscountPercentage:
		price = base * (1 - d.Value/100)
	case models.DiscountFixed:
		price = base - d.Value
	default:
		return base
	}
	if price < 0 {
		return 0
	}
	return price
}

// Effective reports whether a discount applies at time t:
// active and t within [StartDate, EndDate).
func Effective(d models.Discount, t time.Time) bool {
	return d.IsActive && !t.Before(d.StartDate) && t.Before(d.EndDate)
}

// Round snaps a price to currency precision (2 decimal places).
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// ConversionRate returns the multiplier converting an amount in `from`
// into `to`. Both rates are each currency's rate-to-base, so conversion
// is always routed through the base currency, never pairwise.
func ConversionRate(tx *gorm.DB, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}

	var rates []models.Currency
	if err := tx.Where("currency_code IN ?", []string{from, to}).Find(&rates).Error; err != nil {
		return 0, err
	}

	var fromRate, toRate float64
	for _, r := range rates {
		switch r.CurrencyCode {
		case from:
			fromRate = r.ExchangeRateToBase
		case to:
			toRate = r.ExchangeRateToBase
		}
	}
	if fromRate == 0 || toRate == 0 {
		return 0, fmt.Errorf("%w: %s to %s", ErrCurrencyNotFound, from, to)
	}

	return toRate / fromRate, nil
}

// Resolver determines the currently-effective unit price of a product.
// The evaluation order is fixed: resolve the discount first, convert
// currency second, round last.
type Resolver struct {
	Now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

// UnitPrice returns the price one unit of the product sells for right
// now, in the requested currency. The product's sale price wins when a
// price-log entry is tied to a discount that is still effective;
// otherwise the product's own price applies.
func (r *Resolver) UnitPrice(tx *gorm.DB, product models.Product, currencyCode string) (float64, error) {
	now := r.Now()

	price := product.Price
	var logRow models.ProductPriceLog
	err := tx.Model(&models.ProductPriceLog{}).
		Joins("JOIN discounts ON discounts.id = product_price_logs.discount_id").
		Where("product_price_logs.product_id = ?", product.ID).
		Where("discounts.is_active = ?", true).
		Where("discounts.start_date <= ? AND discounts.end_date > ?", now, now).
		Order("product_price_logs.created_at DESC").
		First(&logRow).Error
	if err == nil {
		price = logRow.DiscountedPrice
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	if currencyCode != BaseCurrency {
		rate, err := ConversionRate(tx, BaseCurrency, currencyCode)
		if err != nil {
			return 0, err
		}
		price = price * rate
	}

	return Round(price), nil
}
