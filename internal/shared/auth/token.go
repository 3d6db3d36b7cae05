package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerHeader builds the Authorization header value forwarded to the backend.
// The token is sent even when empty so the backend decides how to reject it.
//
// Example:
//
//	req.Header.Set("Authorization", BearerHeader("abc123")) // "Bearer abc123"
func BearerHeader(token string) string {
	return bearerPrefix + strings.TrimSpace(token)
}

// ExtractBearerToken extracts the token from the Authorization header.
// It handles the "Bearer " prefix and returns an empty string if no token is present.
func ExtractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	return ExtractBearerTokenFromHeader(r.Header.Get("Authorization"))
}

// ExtractBearerTokenFromHeader extracts the token from an Authorization header value.
func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerPrefix)) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}
