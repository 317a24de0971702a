package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func setTestSecret(t *testing.T) {
	t.Helper()
	t.Setenv("ADMITDESK_AUTH_SECRET", "test-secret")
	ResetSecretForTests()
}

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	setTestSecret(t)

	p := Principal{ID: "adm_1", Username: "ridge-admin", FullName: "Ridge Admin", Role: RoleAdmin, CollegeID: "col_1"}
	token, expiresAt, err := GenerateToken(p, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	got, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if got != p {
		t.Fatalf("principal mismatch: %+v vs %+v", got, p)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	setTestSecret(t)

	p := Principal{ID: "sup_1", Username: "root", Role: RoleSuperAdmin}
	token, _, err := GenerateToken(p, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := ParseAndValidate(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	setTestSecret(t)

	claims := Claims{
		Role:     RoleSuperAdmin,
		Username: "root",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "admitdesk",
			Subject:   "sup_1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestRoleScopeConsistencyEnforced(t *testing.T) {
	setTestSecret(t)

	// A globally scoped principal must carry no college, a tenant-scoped
	// one must carry exactly one.
	bad := []Principal{
		{ID: "sup_1", Username: "root", Role: RoleSuperAdmin, CollegeID: "col_1"},
		{ID: "adm_1", Username: "a", Role: RoleAdmin},
	}
	for _, p := range bad {
		token, _, err := GenerateToken(p, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("principal %+v: got %v, want ErrInvalidToken", p, err)
		}
	}
}

func TestMissingSecretFailsClosed(t *testing.T) {
	t.Setenv("ADMITDESK_AUTH_SECRET", "")
	ResetSecretForTests()
	defer ResetSecretForTests()

	p := Principal{ID: "sup_1", Username: "root", Role: RoleSuperAdmin}
	if _, _, err := GenerateToken(p, time.Hour); err == nil {
		t.Fatal("expected error without a configured secret")
	}
}
