// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Response Helpers

JSONResponse and ErrorResponse standardize the API surface:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "scores out of range")

ErrorResponse produces the models.ErrorResponse shape with the status text
as the error field and the detail as the message.

# Middleware

WithLogging logs request start/completion with duration via slog. CORS
allows the local UI (a separate dev server during development) to call the
API cross-origin.
*/
package middleware
