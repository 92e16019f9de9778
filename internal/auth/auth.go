// Package auth issues and checks the admin bearer tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"salon-booking-backend/config"
)

// RoleAdmin is the only privileged role.
const RoleAdmin = "admin"

const issuer = "salon-booking"

var (
	ErrUnauthorized      = errors.New("invalid or missing credentials")
	ErrForbidden         = errors.New("forbidden")
	ErrNotConfigured     = errors.New("admin password not configured")
	ErrInvalidCredential = errors.New("invalid credentials")
)

// Claims are the token claims. Role is empty for non-admin tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs tokens and verifies the admin password.
type Manager struct {
	secret       []byte
	ttl          time.Duration
	password     string
	passwordHash []byte
	now          func() time.Time
}

// NewManager creates a Manager from the auth config.
func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{
		secret:       []byte(cfg.JWTSecret),
		ttl:          cfg.TokenTTL,
		password:     strings.TrimSpace(cfg.AdminPassword),
		passwordHash: []byte(strings.TrimSpace(cfg.AdminPasswordHash)),
		now:          time.Now,
	}
}

// Login checks password and returns a signed admin token.
func (m *Manager) Login(password string) (string, error) {
	if err := m.checkPassword(strings.TrimSpace(password)); err != nil {
		return "", err
	}
	return m.Issue(RoleAdmin)
}

func (m *Manager) checkPassword(password string) error {
	switch {
	case len(m.passwordHash) > 0:
		if bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) != nil {
			return ErrInvalidCredential
		}
		return nil
	case m.password != "":
		if subtle.ConstantTimeCompare([]byte(m.password), []byte(password)) != 1 {
			return ErrInvalidCredential
		}
		return nil
	default:
		return ErrNotConfigured
	}
}

// Issue signs a token carrying role.
func (m *Manager) Issue(role string) (string, error) {
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a token and returns its claims. Any failure is ErrUnauthorized.
func (m *Manager) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Authorize checks an Authorization header value and requires the admin role.
func (m *Manager) Authorize(header string) (*Claims, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized
	}
	claims, err := m.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}

// HashPassword returns a bcrypt hash suitable for auth.admin_password_hash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
