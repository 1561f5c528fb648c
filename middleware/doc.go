// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Each request gets a "req-" prefixed nanoid, stored in the request context
(see RequestID) and echoed in the X-Request-ID response header. Start and
completion are logged with slog, completion including status and
duration_ms.

# Security Headers

	server := http.Server{
		Handler: middleware.SecurityHeaders(mux),
	}

Sets X-Content-Type-Options, X-Frame-Options and Referrer-Policy.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

# Client IP Extraction

Get the client IP. Proxy headers (X-Forwarded-For, X-Real-IP) are only
honoured when the server is configured to trust its proxy:

	ip := middleware.GetClientIP(r, cfg.TrustProxy)

Used to key the admin login rate limiter.
*/
package middleware
