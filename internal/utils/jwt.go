package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medivault-server/internal/config"
	"medivault-server/internal/models"
)

// ErrInvalidToken covers every verification failure: bad signature, unexpected algorithm,
// malformed token, wrong issuer, missing or elapsed expiry, and unusable claims.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the JWT claims.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	UserID uint
	Role   models.Role
}

// TokenService issues and verifies stateless HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.Expiration,
		now:    time.Now,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue signs a token for user that expires after the configured horizon.
func (s *TokenService) Issue(user *models.User) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify checks the token without touching storage; the embedded role is trusted until expiry.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Identity{}, ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: uint(id), Role: claims.Role}, nil
}
