// utils/jwt.go
package utils

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT loads the signing secret. Fatal when unset — sessions would be
// forgeable otherwise.
func InitJWT() {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}
	jwtSecret = []byte(secret)
}

// SessionClaims identify a logged-in school (or the federation admin).
type SessionClaims struct {
	SchoolID   string `json:"school_id"`
	SchoolName string `json:"school_name"`
	IsAdmin    bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateToken issues a session token valid for the entry period's working
// week.
func GenerateToken(schoolID, schoolName string, isAdmin bool) (string, error) {
	claims := SessionClaims{
		SchoolID:   schoolID,
		SchoolName: schoolName,
		IsAdmin:    isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid session token")
}
