// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("Expected bcrypt hash, got %q", hash)
	}
	if !VerifyPassword(hash, "correct-horse-battery") {
		t.Error("Expected correct password to verify")
	}
	if VerifyPassword(hash, "wrong-password") {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestHashPasswordRejectsWeakInput(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"empty", ""},
		{"too short", "short"},
		{"seven chars", "1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := HashPassword(tt.password); err == nil {
				t.Errorf("Expected error for password %q", tt.password)
			}
		})
	}
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password-input")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("same-password-input")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("Expected distinct hashes for the same password")
	}
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Error("Expected verification against garbage hash to fail")
	}
}
