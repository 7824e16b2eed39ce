// Package auth verifies caller identity for the protected API surface.
// Callers present a Google-issued ID token; the token's email must belong
// to the configured workspace domain.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	// ErrWrongDomain marks a verified identity outside the allowed domain.
	ErrWrongDomain = errors.New("email outside allowed domain")
)

// Identity is a verified caller. Username is the email local part, which is
// how purchasers and approvers are named in the ledger.
type Identity struct {
	Email    string
	Username string
}

// Verifier checks a bearer token and resolves it to an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// GoogleVerifier validates Google ID tokens against an audience and an
// allowed email domain.
type GoogleVerifier struct {
	audience      string
	allowedDomain string
}

// NewGoogleVerifier creates a verifier. An empty allowedDomain admits any
// verified email.
func NewGoogleVerifier(audience, allowedDomain string) *GoogleVerifier {
	return &GoogleVerifier{
		audience:      audience,
		allowedDomain: strings.ToLower(allowedDomain),
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("Verify: validate id token: %w", err)
	}
	email, _ := payload.Claims["email"].(string)
	return IdentityForEmail(email, v.allowedDomain)
}

// IdentityForEmail applies the domain gate and derives the username from a
// verified email address.
func IdentityForEmail(email, allowedDomain string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrWrongDomain
	}
	if allowedDomain != "" && !strings.HasSuffix(email, "@"+strings.ToLower(allowedDomain)) {
		return nil, ErrWrongDomain
	}
	username := email
	if i := strings.Index(email, "@"); i >= 0 {
		username = email[:i]
	}
	return &Identity{Email: email, Username: username}, nil
}
