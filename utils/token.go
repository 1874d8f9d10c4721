package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed validity window of a session token. There is no
// refresh mechanism; a new login cycle is required after expiry.
const SessionTTL = 6 * time.Hour

// ErrNoSecret marks a missing signing secret: a service misconfiguration,
// not a credential failure.
var ErrNoSecret = errors.New("JWT_SECRET is not set")

// Claims is the signed session payload. UserID is empty for admin sessions.
type Claims struct {
	Role   string `json:"role"`
	Email  string `json:"email"`
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed session token valid for SessionTTL
func GenerateToken(role, email, userID string) (string, error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		return "", ErrNoSecret
	}

	claims := Claims{
		Role:   role,
		Email:  email,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken parses and validates a session token and returns its claims
func ValidateToken(tokenString string) (*Claims, error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
