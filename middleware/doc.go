// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(status, duration_ms). Every request gets a UUID request id, echoed in the
X-Request-ID response header and available through RequestID(ctx).

# Account Authentication

RequireAccount checks the X-Account-ID and X-Account-Key headers against the
server salt and puts the account id in the request context:

	mux.HandleFunc("POST /elections", middleware.WithLogging(
		middleware.RequireAccount(cfg.AccountKeySalt, h.CreateElection)))

	caller, ok := middleware.Caller(r)

Rejected requests get 401 and a log line carrying the hashed client IP.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST, OPTIONS with headers Content-Type, X-Account-ID,
X-Account-Key, X-Request-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodedErrorResponse(w, http.StatusConflict, "already_voted", "message")

	var req models.RoleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
