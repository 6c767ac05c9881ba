// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/domains", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(status, duration_ms).

# Request IDs

WithRequestID assigns every request an X-Request-ID (a fresh UUID unless the
caller sent one), echoes it on the response and stores it on the context so
the gateway forwards it to the backend.

# CORS Middleware

Enable cross-origin requests for browser clients:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin)(mux),
	}

An empty origin echoes the request's Origin header.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.FieldErrorResponse(w, "age", "age is required")

Parse JSON request bodies:

	var state map[string]json.RawMessage
	if err := middleware.ParseJSONBody(r, &state); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

GetClientIP returns the original client IP (handles X-Forwarded-For,
X-Real-IP) and is what request logs record as remote.
*/
package middleware
