package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isha-gohel181/rewear/internal/infra/security"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and resolves the caller's
// identity provider principal.
func RequireAuth(verifier *security.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		if !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: must start with 'Bearer'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing session token"))
			return
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "session token expired"))
			case errors.Is(err, security.ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid session token"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		// Store caller identity in context
		c.Set(ExternalIDKey, principal.ExternalID)
		c.Set("principal", principal)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.ExternalID = principal.ExternalID
		}

		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a Bearer token is present
// but lets anonymous requests through. Invalid tokens are treated as anonymous.
func OptionalAuth(verifier *security.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		principal, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			c.Next()
			return
		}

		c.Set(ExternalIDKey, principal.ExternalID)
		c.Set("principal", principal)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.ExternalID = principal.ExternalID
		}

		c.Next()
	}
}

// GetAuthenticatedExternalID retrieves the provider user id from context (helper for handlers)
func GetAuthenticatedExternalID(c *gin.Context) (string, bool) {
	externalID, exists := c.Get(ExternalIDKey)
	if !exists {
		return "", false
	}

	if id, ok := externalID.(string); ok {
		return id, true
	}

	return "", false
}

// GetPrincipal retrieves the verified identity principal from context.
func GetPrincipal(c *gin.Context) (*security.Principal, bool) {
	val, exists := c.Get("principal")
	if !exists {
		return nil, false
	}

	if principal, ok := val.(*security.Principal); ok {
		return principal, true
	}

	return nil, false
}
