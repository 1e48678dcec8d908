// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername = errors.New("admin username must not be empty")
	ErrEmptyPassword = errors.New("admin password must not be empty")
)

// Verifier checks credentials against the single admin identity.
// The password hash is computed once, when the Verifier is built.
type Verifier struct {
	username []byte
	hash     []byte
}

// NewVerifier hashes the raw admin secret with a fresh bcrypt salt
func NewVerifier(username, password string) (*Verifier, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &Verifier{username: []byte(username), hash: hash}, nil
}

// Verify reports whether the credentials match the admin identity.
// It never fails loudly: any mismatch or malformed input returns false.
func (v *Verifier) Verify(username, password string) bool {
	if v == nil {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), v.username) == 1

	// Always compare the hash, even for a wrong username
	passOK := bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil

	return userOK && passOK
}

// Username returns the admin identity name
func (v *Verifier) Username() string {
	return string(v.username)
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

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
