package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"groundbook/config"

	"github.com/golang-jwt/jwt"
)

const devSecret = "groundbook-dev-secret"

// TokenClaims are the fields the API reads back from a session token.
type TokenClaims struct {
	Subject   string
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// secretKey falls back to a fixed key outside production only; config.Validate
// refuses to start a production server without JWT_SECRET.
func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = devSecret
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given user and session.
// The token expires after the specified duration.
func GenerateToken(subject, email, sessionID string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"sid":   sessionID,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractClaims validates tokenString and returns its subject, email and session id.
func ExtractClaims(tokenString string) (TokenClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return TokenClaims{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if sub == "" || sid == "" {
		return TokenClaims{}, errors.New("token does not carry a subject and session")
	}
	email, _ := claims["email"].(string)

	out := TokenClaims{Subject: sub, Email: email, SessionID: sid}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
