// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestCredentialsCheck(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "s3cret"}

	tests := []struct {
		name     string
		creds    Credentials
		username string
		password string
		want     bool
	}{
		{"valid", creds, "admin", "s3cret", true},
		{"wrong password", creds, "admin", "nope", false},
		{"wrong username", creds, "root", "s3cret", false},
		{"empty input", creds, "", "", false},
		{"case sensitive", creds, "Admin", "s3cret", false},
		{"unconfigured never matches", Credentials{}, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Check(tt.username, tt.password); got != tt.want {
				t.Errorf("Check(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestSignSession(t *testing.T) {
	sig1 := SignSession("session-1", "salt")
	sig2 := SignSession("session-1", "salt")
	if sig1 != sig2 {
		t.Error("SignSession() is not deterministic")
	}
	if strings.Contains(sig1, "=") {
		t.Error("SignSession() should not contain padding")
	}
	if SignSession("session-1", "other-salt") == sig1 {
		t.Error("SignSession() produced same signature for different salts")
	}
	if SignSession("session-2", "salt") == sig1 {
		t.Error("SignSession() produced same signature for different sessions")
	}
}

func TestValidateSession(t *testing.T) {
	sig := SignSession("session-1", "salt")

	if err := ValidateSession("session-1", sig, "salt"); err != nil {
		t.Errorf("ValidateSession() error = %v", err)
	}
	if err := ValidateSession("session-1", sig, "wrong-salt"); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
	if err := ValidateSession("session-1", "", "salt"); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature for empty signature, got %v", err)
	}
}

func TestParseSessionToken(t *testing.T) {
	token := SessionToken("3f2b9a1c-uuid", "salt")

	id, err := ParseSessionToken(token, "salt")
	if err != nil {
		t.Fatalf("ParseSessionToken() error = %v", err)
	}
	if id != "3f2b9a1c-uuid" {
		t.Errorf("ParseSessionToken() = %q, want %q", id, "3f2b9a1c-uuid")
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"no separator", "abc", ErrInvalidToken},
		{"empty id", ".sig", ErrInvalidToken},
		{"empty signature", "abc.", ErrInvalidToken},
		{"tampered id", "other" + token[strings.LastIndexByte(token, '.'):], ErrInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSessionToken(tt.token, "salt"); err != tt.want {
				t.Errorf("ParseSessionToken(%q) error = %v, want %v", tt.token, err, tt.want)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"ipv4", "192.168.1.1", "salt"},
		{"ipv6", "2001:db8::1", "salt"},
		{"empty", "", "salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
}
