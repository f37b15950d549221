package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	second := "alt@x.com"
	u := User{ID: "id-1", UserName: "Ana", Email: "ana@x.com", SecondaryEmail: &second, PasswordHash: "$2a$12$secret"}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "secret") || strings.Contains(body, "password") {
		t.Fatalf("expected hash to be excluded, got %s", body)
	}
	if !strings.Contains(body, `"email_user_second":"alt@x.com"`) {
		t.Fatalf("expected secondary email in body, got %s", body)
	}
}

func TestUserPublicClearsHash(t *testing.T) {
	u := User{ID: "id-1", PasswordHash: "digest"}
	if u.Public().PasswordHash != "" {
		t.Fatalf("expected hash cleared")
	}
	if u.PasswordHash != "digest" {
		t.Fatalf("expected original untouched")
	}
}

func TestPasswordResetJSONOmitsRecoveryCode(t *testing.T) {
	r := PasswordReset{
		ID:           "r-1",
		UserID:       "id-1",
		RecoveryCode: "482913",
		Expiration:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "482913") || strings.Contains(body, "recovery") {
		t.Fatalf("expected recovery code to be excluded, got %s", body)
	}
	if !strings.Contains(body, `"user_id":"id-1"`) {
		t.Fatalf("expected user_id in body, got %s", body)
	}
}
