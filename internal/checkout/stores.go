package checkout

import (
	"errors"
	"fmt"

	"go-shop-server/internal/models"

	"gorm.io/gorm"
)

// CartStore and AddressStore are the engine's collaborators. They take
// the transaction handle so their reads and writes share the checkout's
// transaction boundary.

type CartStore interface {
	CartLines(tx *gorm.DB, userID uint) ([]LineRequest, error)
	ClearCart(tx *gorm.DB, userID uint) error
}

type AddressStore interface {
	GetAddress(tx *gorm.DB, userID, addressID uint) (models.Address, error)
	CreateAddress(tx *gorm.DB, userID uint, payload NewAddress) (uint, error)
}

// GormCartStore backs CartStore with the cart/cart_items tables.
type GormCartStore struct{}

func (GormCartStore) CartLines(tx *gorm.DB, userID uint) ([]LineRequest, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // no cart yet
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]LineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines, nil
}

func (GormCartStore) ClearCart(tx *gorm.DB, userID uint) error {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // no cart yet, nothing to clear
	}
	if err != nil {
		return err
	}
	return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

// GormAddressStore backs AddressStore with the addresses table.
type GormAddressStore struct{}

func (GormAddressStore) GetAddress(tx *gorm.DB, userID, addressID uint) (models.Address, error) {
	var addr models.Address
	err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&addr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Address{}, fmt.Errorf("%w: address %d", ErrInvalidAddress, addressID)
	}
	return addr, err
}

func (GormAddressStore) CreateAddress(tx *gorm.DB, userID uint, payload NewAddress) (uint, error) {
	addr := models.Address{
		UserID:        userID,
		FullName:      payload.FullName,
		PhoneNumber:   payload.PhoneNumber,
		StreetAddress: payload.StreetAddress,
		City:          payload.City,
		Province:      payload.Province,
		PostalCode:    payload.PostalCode,
		Country:       payload.Country,
	}
	if err := tx.Create(&addr).Error; err != nil {
		return 0, err
	}
	return addr.ID, nil
}
