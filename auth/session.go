// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName holds the signed admin session token
const SessionCookieName = "pollster_session"

const sessionType = "admin"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrEmptySecret    = errors.New("session secret must not be empty")
)

// Sessions issues and validates signed admin session tokens
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued tokens
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Issue signs a session token for the admin
func (s *Sessions) Issue(username string) (string, time.Time, error) {
	jti, err := GenerateID(16)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["sub"] = username
	claims["typ"] = sessionType
	claims["jti"] = jti
	claims["iat"] = now.Unix()
	claims["exp"] = expiresAt.Unix()

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks the signature, type and expiry and returns the username
func (s *Sessions) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidSession
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidSession
	}

	if typ, ok := claims["typ"].(string); !ok || typ != sessionType {
		return "", fmt.Errorf("%w: unexpected token type %v", ErrInvalidSession, claims["typ"])
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: subject missing", ErrInvalidSession)
	}

	return sub, nil
}
