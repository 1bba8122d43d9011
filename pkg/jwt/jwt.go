package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the session claims bag carried by every authenticated request.
// It caches the preference flags alongside the identity so handlers do not
// need a database round trip just to know who is calling.
type Claims struct {
	UserID              string `json:"user_id"`
	Username            string `json:"username"`
	IsVerified          bool   `json:"is_verified"`
	IsAcceptingMessages bool   `json:"is_accepting_messages"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given user identity.
func GenerateToken(userID, username string, isVerified, isAcceptingMessages bool, secret string, expiry time.Duration) (string, error) {
	claims := Claims{
		UserID:              userID,
		Username:            username,
		IsVerified:          isVerified,
		IsAcceptingMessages: isAcceptingMessages,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
