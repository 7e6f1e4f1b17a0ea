package jwt

import (
	"errors"
	"time"

	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

const (
	adminSubject = "storefront-admin"
	defaultTTL   = 12 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
	ErrNoSecret     = errors.New("admin secret is not configured")
)

type (
	Manager interface {
		CreateToken(ttl time.Duration) (string, error)
		ValidateToken(tokenString string) (*Claims, error)
	}
	manager struct {
		secret []byte
		now    func() time.Time
	}
)

// NewJwtManager signs and verifies admin tokens with the configured shared secret.
func NewJwtManager(cfg config.AdminConfig) Manager {
	return &manager{
		secret: []byte(cfg.SecretKey),
		now:    time.Now,
	}
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (m *manager) CreateToken(ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSecret
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := m.now()
	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *manager) ValidateToken(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrNoSecret
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != adminSubject {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
