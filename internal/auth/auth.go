package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the per-request capability object resolved from the identity
// provider's bearer token. Business logic receives it explicitly instead of
// reading ambient session state.
type Identity struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the identity carries the given role key.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var errInvalidToken = errors.New("invalid token")

// Verifier validates identity-provider tokens signed with a shared HMAC secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// ParseBearer extracts and validates a token from an Authorization header
// value ("Bearer <token>"). The subject claim is the user id; the optional
// "roles" claim lists role keys.
func (v *Verifier) ParseBearer(header string) (Identity, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Identity{}, errInvalidToken
	}
	return v.Parse(strings.TrimSpace(parts[1]))
}

// Parse validates a raw token string and extracts the identity.
func (v *Verifier) Parse(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, errInvalidToken
	}

	return Identity{UserID: sub, Roles: rolesFromClaims(claims)}, nil
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var roles []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			roles = append(roles, v)
		case map[string]interface{}:
			// Some providers ship roles as objects with a "key" field.
			if key, ok := v["key"].(string); ok {
				roles = append(roles, key)
			}
		}
	}
	return roles
}

type ctxKey struct{}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the identity placed by the auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
