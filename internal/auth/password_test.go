package auth

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantMsg  string // substring of the expected message, "" = acceptable
	}{
		{"acceptable", "ValidPassw0rd!", ""},
		{"too short", "short1!", "12 characters"},
		{"exactly 11 chars", "Aa1!Aa1!Aa1", "12 characters"},
		{"no uppercase", "alllowercase123!", "uppercase"},
		{"no lowercase", "ALLUPPERCASE123!", "lowercase"},
		{"no digit", "NoDigitsHere!!!!", "digit"},
		{"no symbol", "NoSymbolsHere123", "symbol"},
		{"unicode symbol counts", "Sommerregen42§", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidatePassword(tt.password)
			if tt.wantMsg == "" {
				if msg != "" {
					t.Fatalf("ValidatePassword(%q) = %q, want acceptance", tt.password, msg)
				}
				return
			}
			if msg == "" || !strings.Contains(msg, tt.wantMsg) {
				t.Fatalf("ValidatePassword(%q) = %q, want message containing %q", tt.password, msg, tt.wantMsg)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("ValidPassw0rd!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "ValidPassw0rd!" {
		t.Fatal("hash equals plaintext")
	}

	if err := VerifyPassword("ValidPassw0rd!", hash); err != nil {
		t.Errorf("VerifyPassword rejected correct password: %v", err)
	}
	if err := VerifyPassword("WrongPassw0rd!", hash); err == nil {
		t.Error("VerifyPassword accepted wrong password")
	}
}
