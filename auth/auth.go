// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSignature = errors.New("invalid session signature")
	ErrInvalidToken     = errors.New("invalid token format")
)

// Credentials is the single administrator account.
type Credentials struct {
	Username string
	Password string
}

// Check compares username and password against c in constant time.
// Empty configured credentials never match.
func (c Credentials) Check(username, password string) bool {
	if c.Username == "" || c.Password == "" {
		return false
	}
	userOK := hmac.Equal([]byte(username), []byte(c.Username))
	passOK := hmac.Equal([]byte(password), []byte(c.Password))
	return userOK && passOK
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SignSession creates an HMAC signature for a session ID
// This is deterministic and verifiable
func SignSession(sessionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(sessionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner cookies
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateSession checks if the provided signature is valid for the session
func ValidateSession(sessionID, signature, salt string) error {
	expected := SignSession(sessionID, salt)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// SessionToken joins a session ID and its signature into a cookie value
func SessionToken(sessionID, salt string) string {
	return sessionID + "." + SignSession(sessionID, salt)
}

// ParseSessionToken splits and verifies a cookie value produced by SessionToken
func ParseSessionToken(token, salt string) (string, error) {
	i := strings.LastIndexByte(token, '.')
	if i <= 0 || i == len(token)-1 {
		return "", ErrInvalidToken
	}
	sessionID, signature := token[:i], token[i+1:]
	if err := ValidateSession(sessionID, signature, salt); err != nil {
		return "", err
	}
	return sessionID, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for rate limiting keys
	return hex.EncodeToString(sum[:8])
}
