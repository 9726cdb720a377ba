// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the platform.
//
// When no API key is configured the auth middleware is a pass-through,
// so a local deployment needs no authentication setup. Configuring
// API_KEY turns on header checking for the whole /v1 surface.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiKeyHeader is the request header carrying the client key.
const apiKeyHeader = "X-API-Key"

// APIKeyAuth creates a middleware that requires the configured key in
// the X-API-Key header. An empty key disables the check entirely.
func APIKeyAuth(key string) gin.HandlerFunc {
	if key == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	want := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(apiKeyHeader))
		if subtle.ConstantTimeCompare(want, got) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
