package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"collabhub/config"
	"collabhub/models"
)

type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateJWTToken issues a signed bearer token bound to the user id.
// Expiry comes from configuration; JWT_EXPIRY_HOURS=0 issues a token that
// never expires. Tokens are never persisted server-side.
func GenerateJWTToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if config.AppConfig.JWTExpiryHours > 0 {
		expiry := time.Duration(config.AppConfig.JWTExpiryHours) * time.Hour
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func ParseJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
