package database

import (
	"os"

	"go-shop-server/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed inserts the baseline reference data the checkout flow depends on.
// It is idempotent: running it twice leaves the tables unchanged.
func Seed(db *gorm.DB) error {
	// Currencies shoppers can pick at checkout
	currencyCodes := []models.CurrencyCode{
		{Code: "PHP", Name: "Philippine Peso"},
		{Code: "USD", Name: "US Dollar"},
		{Code: "EUR", Name: "Euro"},
		{Code: "JPY", Name: "Japanese Yen"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&currencyCodes).Error; err != nil {
		return err
	}

	// Exchange rates relative to the base currency.
	// PHP is the base, so its rate is always 1.0.
	rates := []models.Currency{
		{CurrencyCode: "PHP", ExchangeRateToBase: 1.0},
		{CurrencyCode: "USD", ExchangeRateToBase: 0.018},
		{CurrencyCode: "EUR", ExchangeRateToBase: 0.016},
		{CurrencyCode: "JPY", ExchangeRateToBase: 2.65},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rates).Error; err != nil {
		return err
	}

	return seedAdmin(db)
}

// seedAdmin creates the default admin account so the admin surface is
// reachable on a fresh install. Credentials come from the environment;
// without both variables no admin is seeded.
func seedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{Email: email, PasswordHash: string(hash), Role: "admin"}
	return db.Create(&admin).Error
}
