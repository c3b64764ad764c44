package token

import (
	"fmt"
	"time"

	"cotizador-platform/lib/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/spf13/viper"
)

func jwtKey() []byte {
	return []byte(viper.GetString("JWT_SECRET"))
}

// GenerateToken issues a token for userID and userName. Production tokens
// come from the identity provider; this is used by local tooling and tests.
func GenerateToken(userID, userName string) (string, error) {
	claims := &jwt.StandardClaims{
		ExpiresAt: time.Now().Add(72 * time.Hour).Unix(),
		Subject:   userID,
		Audience:  userName,
		Issuer:    "cotizador-platform",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey())
	if err != nil {
		return "", fmt.Errorf("error signing token: %v", err)
	}

	return tokenString, nil
}

// ValidateToken validates a bearer token issued by the identity provider.
func ValidateToken(tokenString string) (bool, error) {
	claims := &jwt.StandardClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey(), nil
	})
	if err != nil {
		return false, fmt.Errorf("error parsing token: %v", err)
	}

	return token.Valid, nil
}

// GetUserFromToken extracts user information from a validated token.
func GetUserFromToken(tokenString string) (utils.UserRequest, error) {
	claims := &jwt.StandardClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey(), nil
	})
	if err != nil {
		return utils.UserRequest{}, fmt.Errorf("error parsing token: %v", err)
	}
	if !token.Valid {
		return utils.UserRequest{}, fmt.Errorf("invalid token")
	}

	return utils.UserRequest{
		UserID:   claims.Subject,
		UserName: claims.Audience,
	}, nil
}
