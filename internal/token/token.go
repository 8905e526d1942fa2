package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"simple-ecommerce/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session payload signed into every token
type Claims struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Maker issues and verifies HS256 session tokens
type Maker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewMaker creates a token maker for the given signing secret
func NewMaker(secret string, ttl time.Duration) (*Maker, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &Maker{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the user
func (m *Maker) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := Claims{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the caller identity
func (m *Maker) Verify(raw string) (*models.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	return &models.Identity{ID: claims.ID, Email: claims.Email, IsAdmin: claims.IsAdmin}, nil
}
