package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"go-shop-server/internal/models"

	"github.com/gin-gonic/gin"
)

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.POST("/login", Login)
	r.POST("/register", Register)
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupHandlerTest(t)
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/register", `{"email":"shopper@example.com","password":"secret123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d body=%s", w.Code, w.Body.String())
	}

	// Self-registered accounts are always customers
	var user models.User
	if err := db.First(&user, "email = ?", "shopper@example.com").Error; err != nil {
		t.Fatalf("user row: %v", err)
	}
	if user.Role != "customer" {
		t.Fatalf("expected customer role, got %q", user.Role)
	}

	w = doJSON(t, r, http.MethodPost, "/login", `{"email":"shopper@example.com","password":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" || resp.Role != "customer" {
		t.Fatalf("unexpected login response: %s", w.Body.String())
	}
}

func TestRegisterDisabledByEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	db := setupHandlerTest(t)
	t.Setenv("ALLOW_REGISTRATION", "false")
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/register", `{"email":"late@example.com","password":"secret123"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("no user should be created when registration is off, got %d", count)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	setupHandlerTest(t)
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/register", `{"email":"shopper@example.com","password":"secret123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/login", `{"email":"shopper@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d body=%s", w.Code, w.Body.String())
	}
}
