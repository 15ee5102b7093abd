package auth

import (
	"errors"
	"testing"

	"learnhub/internal/models"
	"learnhub/pkg/database"

	"github.com/dgrijalva/jwt-go"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db), "test-secret")

	user := &models.User{Username: "mona", Email: "mona@example.com", Password: "s3cret"}
	if err := service.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "s3cret" {
		t.Error("password stored in plain text")
	}

	tokenString, err := service.Login("mona", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := *token.Claims.(*jwt.MapClaims)
	if claims["username"] != "mona" {
		t.Errorf("username claim = %v, want mona", claims["username"])
	}
	if isAdmin, _ := claims["is_admin"].(bool); isAdmin {
		t.Error("is_admin claim true for a regular user")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db), "test-secret")

	user := &models.User{Username: "mona", Email: "mona@example.com", Password: "s3cret"}
	if err := service.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.Login("mona", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := service.Login("nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestIsAdmin(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db), "test-secret")

	admin := &models.User{Username: "root", Email: "root@example.com", Password: "pw", IsAdmin: true}
	if err := service.Register(admin); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := service.IsAdmin(admin.ID)
	if err != nil {
		t.Fatalf("role lookup: %v", err)
	}
	if !got {
		t.Error("IsAdmin = false, want true")
	}
}
