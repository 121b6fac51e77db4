package security

import (
	"encoding/json"
	"errors"
	"time"

	"sqltester/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

func GenerateToken(userID int64, role string) (string, error) {
	claims := map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims map[string]interface{}) (int64, error) {
	switch id := claims["user_id"].(type) {
	case float64:
		return int64(id), nil
	case int64:
		return id, nil
	case json.Number:
		return id.Int64()
	default:
		return 0, errors.New("user_id claim is missing or not a number")
	}
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
