package database

import (
	"fmt"
	"testing"

	"go-shop-server/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSeedIdempotent(t *testing.T) {
	db := setupSeedTestDB(t)

	if err := Seed(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var codeCount, rateCount int64
	db.Model(&models.CurrencyCode{}).Count(&codeCount)
	db.Model(&models.Currency{}).Count(&rateCount)
	if codeCount != 4 || rateCount != 4 {
		t.Fatalf("seeding duplicated rows: codes=%d rates=%d", codeCount, rateCount)
	}

	// The base currency rate must stay pinned at 1.0
	var php models.Currency
	if err := db.First(&php, "currency_code = ?", "PHP").Error; err != nil {
		t.Fatalf("base currency missing: %v", err)
	}
	if php.ExchangeRateToBase != 1.0 {
		t.Fatalf("base currency rate must be 1.0, got %v", php.ExchangeRateToBase)
	}
}

func TestSeedCreatesAdminFromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@shop.local")
	t.Setenv("ADMIN_PASSWORD", "sikreto123")
	db := setupSeedTestDB(t)

	if err := Seed(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var admins []models.User
	if err := db.Where("role = ?", "admin").Find(&admins).Error; err != nil {
		t.Fatalf("admins: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("expected exactly one admin, got %d", len(admins))
	}
	if admins[0].Email != "admin@shop.local" {
		t.Fatalf("unexpected admin email: %s", admins[0].Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("sikreto123")); err != nil {
		t.Fatalf("admin password hash does not verify: %v", err)
	}
}

func TestSeedSkipsAdminWithoutCredentials(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	db := setupSeedTestDB(t)

	if err := Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("no users should be seeded without credentials, got %d", count)
	}
}
