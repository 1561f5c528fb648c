// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential checks, session signing and login throttling.

# Admin Credentials

The administrator account is configuration, not code:

	creds := auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword}
	if !creds.Check(username, password) {
		// invalid credentials
	}

Both fields are compared in constant time. An empty configured username or
password never matches.

# Session Tokens

Session cookies carry the session ID plus an HMAC-SHA256 signature:

	token := auth.SessionToken(sessionID, salt)
	sessionID, err := auth.ParseSessionToken(token, salt)

The signature is URL-safe base64 without padding. Tampered or foreign
cookies fail with ErrInvalidSignature or ErrInvalidToken.

# ID Generation

Random hex IDs, used for CSRF tokens:

	id, err := auth.GenerateID(16)  // 32 hex characters

# Login Throttling

LoginLimiter keeps one token bucket per client key:

	limiter := auth.NewLoginLimiter(5) // 5 attempts per minute
	if !limiter.Allow(auth.HashIP(ip, salt)) {
		// too many attempts
	}

Keys are hashed client IPs so raw addresses are never kept in memory.
*/
package auth
