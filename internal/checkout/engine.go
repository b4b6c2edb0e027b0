package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-shop-server/internal/models"
	"go-shop-server/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment modes a shopper may pick. Payment itself is never processed;
// the transaction just records the mode and starts at Payment Pending.
var validPaymentModes = map[string]bool{
	"Credit Card": true,
	"COD":         true,
	"GCash":       true,
}

// LineRequest is one (product, quantity) pair from the client's cart.
type LineRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// NewAddress is an inline shipping address supplied at checkout.
type NewAddress struct {
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

func (a NewAddress) validate() error {
	required := map[string]string{
		"street address": a.StreetAddress,
		"city":           a.City,
		"province":       a.Province,
		"postal code":    a.PostalCode,
		"country":        a.Country,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrAddressRequired, field)
		}
	}
	return nil
}

// Request is the logical checkout contract. UserID comes from the auth
// middleware, never from the request body.
type Request struct {
	UserID       uint
	PaymentMode  string        `json:"paymentMode"`
	CurrencyCode string        `json:"currencyCode"`
	CartItems    []LineRequest `json:"cartItems"`
	AddressID    uint          `json:"addressId"`
	NewAddress   *NewAddress   `json:"newAddress"`
}

// Receipt is what a successful checkout returns.
type Receipt struct {
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId"`
	ReferenceCode string  `json:"referenceCode"`
	TotalAmount   float64 `json:"totalAmount"`
	Currency      string  `json:"currency"`
	ItemCount     int     `json:"itemCount"`
}

// Engine converts a cart into a durable order inside one database
// transaction: validate stock and eligibility per line, resolve
// currency-correct prices, issue a reference code, persist the
// transaction/order/order-items, clear the cart. Either all of it
// commits or none of it does.
type Engine struct {
	DB        *gorm.DB
	Prices    *pricing.Resolver
	Carts     CartStore
	Addresses AddressStore
	NewID     func() string
	Now       func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		DB:        db,
		Prices:    pricing.NewResolver(),
		Carts:     GormCartStore{},
		Addresses: GormAddressStore{},
		NewID:     uuid.NewString,
		Now:       time.Now,
	}
}

// Checkout runs one checkout attempt end to end.
// Shape-level preconditions are checked before the transaction opens;
// everything touching the database - including the stored-cart fallback
// read - runs inside a single transaction and rolls back in full on any
// failure, so no partial order is ever visible.
func (e *Engine) Checkout(req Request) (*Receipt, error) {
	if req.UserID == 0 {
		return nil, ErrUserRequired
	}
	if !validPaymentModes[req.PaymentMode] {
		return nil, ErrInvalidPaymentMode
	}
	if req.AddressID == 0 && req.NewAddress == nil {
		return nil, ErrAddressRequired
	}
	if req.NewAddress != nil {
		if err := req.NewAddress.validate(); err != nil {
			return nil, err
		}
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = pricing.BaseCurrency
	}

	var receipt *Receipt
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		lines := req.CartItems
		if len(lines) == 0 {
			// The client may omit the lines and check out whatever is
			// in the stored cart. The read shares the transaction with
			// ClearCart, so a line added in between is either ordered
			// or survives the clear.
			var err error
			lines, err = e.Carts.CartLines(tx, req.UserID)
			if err != nil {
				return err
			}
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		for i, item := range lines {
			if item.ProductID == 0 || item.Quantity <= 0 {
				return fmt.Errorf("%w (cart item at index %d)", ErrInvalidCartItem, i)
			}
		}
		req.CartItems = lines

		addressID, err := e.resolveAddress(tx, req)
		if err != nil {
			return err
		}

		// The currency must be one we quote rates for.
		var cc models.CurrencyCode
		if err := tx.Where("code = ?", req.CurrencyCode).First(&cc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrInvalidCurrency, req.CurrencyCode)
			}
			return err
		}

		validated, err := e.validateLines(tx, req)
		if err != nil {
			return err
		}

		receipt, err = e.assemble(tx, req, addressID, validated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// resolveAddress returns the shipping address id: an existing address
// owned by the user, or a freshly created one from the inline payload.
func (e *Engine) resolveAddress(tx *gorm.DB, req Request) (uint, error) {
	if req.AddressID != 0 {
		addr, err := e.Addresses.GetAddress(tx, req.UserID, req.AddressID)
		if err != nil {
			return 0, err
		}
		return addr.ID, nil
	}
	return e.Addresses.CreateAddress(tx, req.UserID, *req.NewAddress)
}
