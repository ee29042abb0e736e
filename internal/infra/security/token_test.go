package security

import (
	"encoding/base64"
	"testing"
)

func TestGenerateSecureTokenLengthAndEncoding(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not URL-safe base64: %v", err)
	}

	if len(decoded) != 32 {
		t.Fatalf("expected 32 random bytes, got %d", len(decoded))
	}
}

func TestGenerateSecureTokenRejectsNonPositiveLength(t *testing.T) {
	if _, err := GenerateSecureToken(0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := GenerateSecureToken(-8); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	first, err := GenerateSecureToken(16)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}
	second, err := GenerateSecureToken(16)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct tokens")
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	first := HashToken("remember-me-token")
	second := HashToken("remember-me-token")

	if first != second {
		t.Fatal("expected identical hashes for identical input")
	}

	if len(first) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(first))
	}

	if HashToken("another-token") == first {
		t.Fatal("expected different hashes for different inputs")
	}
}
