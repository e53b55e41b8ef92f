package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Token types carried in the claims so a refresh token cannot be used as a
// bearer token and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents the JWT claims
type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

var (
	jwtSecret  []byte
	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour
)

// Configure sets the signing secret and token lifetimes. Called once from
// main with the loaded config; tests rely on the defaults.
func Configure(secret string, access, refresh time.Duration) {
	jwtSecret = []byte(secret)
	if access > 0 {
		accessTTL = access
	}
	if refresh > 0 {
		refreshTTL = refresh
	}
}

// getJWTSecret returns the configured secret, falling back to the
// environment or a development default.
func getJWTSecret() []byte {
	if len(jwtSecret) > 0 {
		return jwtSecret
	}
	secret := os.Getenv("STOCKROOM_JWT_SECRET")
	if secret == "" {
		// Default for development only - should be set in production
		secret = "stockroom-dev-secret-change-in-production"
	}
	return []byte(secret)
}

// GenerateAccessToken creates a short-lived bearer token for a user
func GenerateAccessToken(user models.User) (string, error) {
	return generateToken(user, TokenTypeAccess, accessTTL)
}

// GenerateRefreshToken creates a long-lived token redeemable for a new
// access token
func GenerateRefreshToken(user models.User) (string, error) {
	return generateToken(user, TokenTypeRefresh, refreshTTL)
}

func generateToken(user models.User, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "stockroom",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return getJWTSecret(), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
