package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/o1egl/paseto"
)

// SessionTokenExpiry matches the session store's lifetime.
const SessionTokenExpiry = 24 * time.Hour

// SessionClaims represents the data carried by a gateway session token.
type SessionClaims struct {
	SessionID string    `json:"sessionId"`
	UserType  string    `json:"userType"`
	Expiry    time.Time `json:"expiry"`
}

// GetSymmetricKey retrieves the symmetric key from the environment variable
// and checks it has the correct length (32 bytes). Startup validates the key
// once, so a failure here means the environment changed underneath a running
// process.
func GetSymmetricKey() ([]byte, error) {
	key := os.Getenv("SYMMETRIC_KEY")
	if len(key) != 32 {
		return nil, fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, current length: %d", len(key))
	}
	return []byte(key), nil
}

// GenerateSessionToken wraps a session id in an encrypted PASETO token.
func GenerateSessionToken(sessionID, userType string) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		UserType:  userType,
		Expiry:    time.Now().Add(SessionTokenExpiry),
	}

	symmetricKey, err := GetSymmetricKey()
	if err != nil {
		return "", err
	}
	token, err := paseto.NewV2().Encrypt(symmetricKey, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return token, nil
}

// ValidateSessionToken decrypts a session token and checks its expiry.
func ValidateSessionToken(token string) (*SessionClaims, error) {
	var claims SessionClaims
	symmetricKey, err := GetSymmetricKey()
	if err != nil {
		return nil, err
	}

	if err := paseto.NewV2().Decrypt(token, symmetricKey, &claims, nil); err != nil {
		return nil, fmt.Errorf("failed to decrypt session token: %w", err)
	}
	if time.Now().After(claims.Expiry) {
		return nil, errors.New("session token has expired")
	}
	return &claims, nil
}
