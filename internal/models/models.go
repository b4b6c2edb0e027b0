package models

import (
	"time"
)

// User - A shopper (or an admin managing the catalog)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'customer'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The Catalog
type Product struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"` // Current price in the base currency (PHP)
	StockQuantity int     `json:"stock_quantity"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`
	OnSale        bool    `json:"on_sale"`
	ImageURL      string  `json:"image_url"`
}

// Cart - One per user, created lazily on first add
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem - A line in a user's cart
type CartItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CartID          uint      `gorm:"index" json:"cart_id"`
	ProductID       uint      `json:"product_id"`
	Product         Product   `json:"product"`
	Quantity        int       `json:"quantity"`
	PriceAtAddition float64   `json:"price_at_addition"` // Snapshot when the item was added
	AddedAt         time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// Discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Discount - A time-bounded price adjustment.
// Effective iff IsActive and now is within [StartDate, EndDate).
type Discount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // 'percentage' or 'fixed'
	Value     float64   `json:"value"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

// ProductPriceLog - Records the price a product had before a discount
// was applied. This is the sole source of truth for price restoration.
type ProductPriceLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductID       uint      `gorm:"index" json:"product_id"`
	DiscountID      uint      `gorm:"index" json:"discount_id"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountedPrice float64   `json:"discounted_price"`
	CreatedAt       time.Time `json:"created_at"`
}

// Currency - Exchange rate relative to the base currency (PHP = 1.0)
type Currency struct {
	CurrencyCode       string  `gorm:"primaryKey;size:3" json:"currency_code"`
	ExchangeRateToBase float64 `json:"exchange_rate_to_base"`
}

// CurrencyCode - The currencies a shopper may check out in
type CurrencyCode struct {
	Code string `gorm:"primaryKey;size:3" json:"currency_code"`
	Name string `json:"currency_name"`
}

// Address - A user's shipping address
type Address struct {
	ID            uint      `gorm:"primaryKey" json:"address_id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	FullName      string    `json:"full_name"`
	PhoneNumber   string    `json:"phone_number"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	Province      string    `json:"province"`
	PostalCode    string    `json:"postal_code"`
	Country       string    `json:"country"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusPaymentPending is where every transaction starts.
// Payment is recorded as a status, never actually processed here.
const StatusPaymentPending = "Payment Pending"

// Transaction - One per checkout that reaches persistence
type Transaction struct {
	ID              string    `gorm:"primaryKey;size:36" json:"transaction_id"`
	UserID          uint      `gorm:"index" json:"user_id"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"`
	PaymentMode     string    `json:"payment_mode"`
	CurrencyCode    string    `gorm:"size:3" json:"currency_code"`
	ReferenceCode   string    `gorm:"uniqueIndex;size:20" json:"reference_code"`
	TransactionDate time.Time `gorm:"autoCreateTime" json:"transaction_date"`
}

// Order - One-to-one with a Transaction; immutable once created
type Order struct {
	ID            string      `gorm:"primaryKey;size:36" json:"order_id"`
	UserID        uint        `gorm:"index" json:"user_id"`
	TotalAmount   float64     `json:"order_total_amount"`
	TransactionID string      `gorm:"size:36" json:"transaction_id"`
	Transaction   Transaction `json:"transaction"`
	AddressID     uint        `json:"address_id"`
	Address       Address     `json:"address"`
	Status        string      `json:"status"` // 'pending', 'shipped', 'delivered'
	OrderDate     time.Time   `gorm:"autoCreateTime" json:"order_date"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem - A frozen snapshot of (product, quantity, price-at-order)
type OrderItem struct {
	ID           string  `gorm:"primaryKey;size:36" json:"order_item_id"`
	OrderID      string  `gorm:"index;size:36" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	Product      Product `json:"product"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
}
