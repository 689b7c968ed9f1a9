package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kimocks-netizen/caro-backend/pkg/config"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "caro-backend",
		ExpirationMinutes: 120,
	}
	now := time.Now().UTC()
	adminID := uuid.New()

	payload := AccessTokenPayload{
		AdminID: adminID,
		Email:   "ops@caro.example",
		Role:    "admin",
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.AdminID != adminID {
		t.Fatalf("expected admin_id %s, got %s", adminID, claims.AdminID)
	}
	if claims.Email != payload.Email {
		t.Fatalf("expected email %s, got %s", payload.Email, claims.Email)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "caro-backend",
		ExpirationMinutes: 10,
	}
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "ops@caro.example",
		Role:    "admin",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	badCfg := cfg
	badCfg.Secret = "other-secret"
	if _, err := ParseAccessToken(badCfg, token); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "caro-backend",
		ExpirationMinutes: 5,
	}
	past := time.Now().Add(-1 * time.Hour)

	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "ops@caro.example",
		Role:    "admin",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now()
	payload := AccessTokenPayload{AdminID: uuid.New(), Email: "ops@caro.example", Role: "admin"}

	cases := []struct {
		name string
		cfg  config.JWTConfig
		pay  AccessTokenPayload
		want string
	}{
		{
			name: "missing secret",
			cfg:  config.JWTConfig{Issuer: "caro-backend", ExpirationMinutes: 10},
			pay:  payload,
			want: "secret",
		},
		{
			name: "missing issuer",
			cfg:  config.JWTConfig{Secret: "secret", ExpirationMinutes: 10},
			pay:  payload,
			want: "issuer",
		},
		{
			name: "non-positive ttl",
			cfg:  config.JWTConfig{Secret: "secret", Issuer: "caro-backend"},
			pay:  payload,
			want: "expiration",
		},
		{
			name: "missing admin id",
			cfg:  config.JWTConfig{Secret: "secret", Issuer: "caro-backend", ExpirationMinutes: 10},
			pay:  AccessTokenPayload{Email: "ops@caro.example", Role: "admin"},
			want: "admin id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MintAccessToken(tc.cfg, now, tc.pay)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
