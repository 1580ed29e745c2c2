package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject kinds carried in a token. Simulator sessions authenticate against a
// simulator's own password, not a user account.
const (
	SubjectUser      = "user"
	SubjectSimulator = "simulator"
)

type JWTClaims struct {
	SubjectID   string `json:"subject_id"`
	SubjectKind string `json:"subject_kind"`
	RoleID      int    `json:"role_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for a user or simulator session.
func GenerateToken(subjectID, subjectKind string, roleID int) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET")) // read at call time
	if len(jwtKey) == 0 {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := JWTClaims{
		SubjectID:   subjectID,
		SubjectKind: subjectKind,
		RoleID:      roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// VerifyToken parses and validates a token produced by GenerateToken.
func VerifyToken(tokenStr string) (*JWTClaims, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtKey) == 0 {
		return nil, errors.New("JWT_SECRET is not set")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
