package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/retailops/backend/internal/infrastructure/config"
)

var (
	// ErrInvalidToken is returned when a token fails signature or claim checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token is past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the identity attached to API requests. Tokens are issued by
// an external identity service; this service only verifies them.
type Claims struct {
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTService verifies HMAC-signed access tokens
type JWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a new JWTService from configuration
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// ValidateAccessToken parses and verifies a token string and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueToken signs a token for the given identity. Used by tests and local
// development; production tokens come from the identity service.
func (s *JWTService) IssueToken(userID, storeID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		StoreID: storeID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
