package adapters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

func TestPasswordService(t *testing.T) {
	svc := &passwordService{cost: 4}

	t.Run("hash and verify", func(t *testing.T) {
		hash, err := svc.HashPassword("correct horse")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hash == "correct horse" {
			t.Error("expected hash to differ from password")
		}
		if err := svc.VerifyPassword(hash, "correct horse"); err != nil {
			t.Errorf("expected password to verify, got %v", err)
		}
		if err := svc.VerifyPassword(hash, "wrong horse"); err == nil {
			t.Error("expected mismatch error")
		}
	})

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "short", true},
		{"minimum length", "12345678", false},
		{"too long", strings.Repeat("a", 73), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.wantErr && !errors.Is(err, domainerror.ErrWeakPassword) {
				t.Errorf("expected ErrWeakPassword, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected nil, got %v", err)
			}
		})
	}
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	svc := &tokenService{secret: []byte("secret"), issuer: "categorizer", expiry: time.Hour, now: func() time.Time { return now }}

	token, err := svc.GenerateAccessToken(ctx, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !token.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expected expiry %v, got %v", now.Add(time.Hour), token.ExpiresAt)
	}

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(ctx, token.Token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != userID {
			t.Errorf("expected %s, got %s", userID, claims.UserID)
		}
		if claims.Email != "ana@example.com" {
			t.Errorf("expected ana@example.com, got %s", claims.Email)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		later := &tokenService{secret: svc.secret, issuer: svc.issuer, expiry: time.Hour, now: func() time.Time { return now.Add(2 * time.Hour) }}
		if _, err := later.ValidateAccessToken(ctx, token.Token); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &tokenService{secret: []byte("other"), issuer: svc.issuer, expiry: time.Hour, now: svc.now}
		if _, err := other.ValidateAccessToken(ctx, token.Token); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := &tokenService{secret: svc.secret, issuer: "someone-else", expiry: time.Hour, now: svc.now}
		if _, err := other.ValidateAccessToken(ctx, token.Token); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong token type", func(t *testing.T) {
		claims := CustomClaims{
			UserID:    userID.String(),
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "categorizer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		if _, err := svc.ValidateAccessToken(ctx, signed); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.ValidateAccessToken(ctx, "not.a.token"); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
