package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the authenticated identity carried by the session token.
type Claims struct {
	UserID int64
	Role   string
}

const tokenTTL = 24 * time.Hour

// IssueToken signs an HS256 session token for a user.
func IssueToken(secret string, userID int64, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and extracts the claims.
func ParseToken(secret, tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Claims{}, fmt.Errorf("empty token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	userID, ok := mc["user_id"].(float64)
	if !ok || userID <= 0 {
		return Claims{}, fmt.Errorf("missing user_id claim")
	}
	role, _ := mc["role"].(string)

	return Claims{UserID: int64(userID), Role: role}, nil
}
