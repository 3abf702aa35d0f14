package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/isha-gohel181/rewear/internal/infra/config"
)

// ErrTokenInvalid indicates the session token failed signature or claim validation.
var ErrTokenInvalid = errors.New("identity: invalid session token")

// ErrTokenExpired indicates the session token is past its expiry.
var ErrTokenExpired = errors.New("identity: session token expired")

// ErrSignatureMismatch indicates a webhook payload signature did not verify.
var ErrSignatureMismatch = errors.New("identity: webhook signature mismatch")

// Principal identifies the authenticated caller as known to the identity provider.
type Principal struct {
	ExternalID string
	Email      string
	Name       string
}

// sessionClaims mirrors the identity provider's session token payload.
type sessionClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 session tokens minted by the identity provider.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier constructs a verifier from auth settings.
func NewTokenVerifier(cfg config.AuthSettings) (*TokenVerifier, error) {
	secret := strings.TrimSpace(cfg.TokenSecret)
	if secret == "" {
		return nil, fmt.Errorf("identity: token secret is required")
	}

	return &TokenVerifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(cfg.TokenIssuer),
	}, nil
}

// Verify parses the token, checks signature, expiry and issuer, and returns
// the caller's principal. The subject claim carries the provider's user id.
func (v *TokenVerifier) Verify(tokenString string) (*Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return &Principal{
		ExternalID: subject,
		Email:      claims.Email,
		Name:       claims.Name,
	}, nil
}

// WebhookVerifier authenticates provider webhook deliveries via HMAC-SHA256
// over the raw request body.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier constructs a verifier for the shared webhook secret.
func NewWebhookVerifier(cfg config.AuthSettings) (*WebhookVerifier, error) {
	secret := strings.TrimSpace(cfg.WebhookSecret)
	if secret == "" {
		return nil, fmt.Errorf("identity: webhook secret is required")
	}

	return &WebhookVerifier{secret: []byte(secret)}, nil
}

// Verify compares the supplied hex signature against the HMAC of the body.
// Signatures may carry a "sha256=" prefix.
func (v *WebhookVerifier) Verify(body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" {
		return ErrSignatureMismatch
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: malformed signature", ErrSignatureMismatch)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	if !hmac.Equal(provided, expected) {
		return ErrSignatureMismatch
	}

	return nil
}

// Sign computes the hex HMAC-SHA256 signature for a payload. Used by tests
// and local tooling that simulates provider deliveries.
func (v *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
