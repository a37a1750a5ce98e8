package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"
	"github.com/zevliandragovets/EcoBankWebsite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepository(db), []byte("test-secret"))
}

func TestSignup(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	req := SignupRequest{
		Name:     "Budi Santoso",
		Email:    "budi@example.com",
		Password: "password123",
		Phone:    "081234567890",
		Address:  "Jl. Merdeka No. 5",
	}

	user, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %s, self-registration must always yield USER", user.Role)
	}
	if user.Balance != "0.00" {
		t.Errorf("balance = %s, want 0.00", user.Balance)
	}

	var stored model.User
	if err := db.First(&stored, "email = ?", req.Email).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.Password == req.Password {
		t.Error("password stored in plaintext")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Signup(context.Background(), req)
		var dupErr *DuplicateError
		if !errors.As(err, &dupErr) {
			t.Fatalf("expected DuplicateError, got %v", err)
		}
	})

	t.Run("malformed email", func(t *testing.T) {
		bad := req
		bad.Email = "not-an-email"
		_, err := svc.Signup(context.Background(), bad)
		var fieldErr *FieldError
		if !errors.As(err, &fieldErr) || fieldErr.Field != "email" {
			t.Fatalf("expected email FieldError, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	if _, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Budi Santoso",
		Email:    "budi@example.com",
		Password: "password123",
		Phone:    "081234567890",
		Address:  "Jl. Merdeka No. 5",
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		tokens, err := svc.Login(context.Background(), LoginRequest{Email: "budi@example.com", Password: "password123"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if tokens.Token == "" || tokens.RefreshToken == "" {
			t.Error("expected both access and refresh tokens")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), LoginRequest{Email: "budi@example.com", Password: "nope"}); err == nil {
			t.Fatal("expected login failure")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "password123"}); err == nil {
			t.Fatal("expected login failure")
		}
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	if _, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Budi Santoso",
		Email:    "budi@example.com",
		Password: "password123",
		Phone:    "081234567890",
		Address:  "Jl. Merdeka No. 5",
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	tokens, err := svc.Login(context.Background(), LoginRequest{Email: "budi@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	rotated, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The consumed token must be rejected on replay.
	if _, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); err == nil {
		t.Fatal("expected replayed refresh token to fail")
	}

	if _, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	member := createTestUser(t, db, "member@example.com", model.RoleUser)

	got, err := svc.GetUserByID(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Email != member.Email {
		t.Errorf("email = %s, want %s", got.Email, member.Email)
	}

	if _, err := svc.GetUserByID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
