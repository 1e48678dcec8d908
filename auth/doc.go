// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin credential checks, admin sessions and small
token utilities.

# Credential Verification

There is exactly one admin identity. Its password is hashed once with bcrypt
when the Verifier is built at startup:

	verifier, err := auth.NewVerifier(cfg.AdminUsername, cfg.AdminPassword)
	ok := verifier.Verify(username, password)

Verify compares the username in constant time and always runs the bcrypt
comparison. It returns false for any mismatch, including empty input.

# Sessions

After a successful login the admin receives an HS256 JWT in the
pollster_session cookie:

	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	token, expiresAt, err := sessions.Issue(username)
	username, err := sessions.Validate(token)

Tokens carry sub, typ=admin, jti, iat and exp. Validate rejects other
signing methods, token types and expired tokens with ErrInvalidSession.

# ID Generation

Random hex IDs (used as session jti):

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving vote logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
