package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/config"
)

// Session is what a verified session token carries.
type Session struct {
	UserID uint
	Role   string
}

// Identity is the profile asserted by the external identity provider.
type Identity struct {
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
}

type TokenManager struct {
	secret         []byte
	identitySecret []byte
	ttl            time.Duration
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TokenManager{
		secret:         []byte(cfg.JWTSecret),
		identitySecret: []byte(cfg.IdentitySecret),
		ttl:            ttl,
	}
}

// IssueToken signs a session token for the user.
func (m *TokenManager) IssueToken(userID uint, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) ParseToken(tokenString string) (Session, error) {
	claims, err := parseHS256(tokenString, m.secret)
	if err != nil {
		return Session{}, err
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return Session{}, fmt.Errorf("invalid user_id claim: %w", apperrors.ErrUnauthenticated)
	}
	role, _ := claims["role"].(string)
	return Session{UserID: uint(id), Role: role}, nil
}

// ParseIdentityAssertion verifies a token minted by the identity provider
// with the shared identity secret. "sub" is the open-id.
func (m *TokenManager) ParseIdentityAssertion(assertion string) (Identity, error) {
	if len(m.identitySecret) == 0 {
		return Identity{}, fmt.Errorf("identity secret not configured: %w", apperrors.ErrUnauthenticated)
	}
	claims, err := parseHS256(assertion, m.identitySecret)
	if err != nil {
		return Identity{}, err
	}
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return Identity{}, fmt.Errorf("assertion has no subject: %w", apperrors.ErrUnauthenticated)
	}
	id := Identity{OpenID: sub}
	id.Name, _ = claims["name"].(string)
	id.Email, _ = claims["email"].(string)
	id.LoginMethod, _ = claims["login_method"].(string)
	return id, nil
}

// SignIdentityAssertion mints an assertion the way the identity provider does.
// Used by local tooling and tests.
func (m *TokenManager) SignIdentityAssertion(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          id.OpenID,
		"name":         id.Name,
		"email":        id.Email,
		"login_method": id.LoginMethod,
		"iat":          now.Unix(),
		"exp":          now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.identitySecret)
}

func parseHS256(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperrors.ErrUnauthenticated)
	}
	return claims, nil
}

var ErrMissingBearer = errors.New("Authorization header missing")

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.Trim(header, "\"' ")
	if header == "" {
		return "", ErrMissingBearer
	}
	parts := strings.Fields(header)
	switch {
	case len(parts) == 1:
		return parts[0], nil
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return strings.Trim(parts[1], "\"'"), nil
	}
	return "", errors.New("invalid authorization format, expected: Bearer <token>")
}
