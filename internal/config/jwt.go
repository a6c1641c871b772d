package config

import "fmt"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// minSecretLength is the shortest HMAC secret accepted.
const minSecretLength = 16

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("jwt secret is not configured (set JWT_SECRET or auth.jwt_secret_file)")
	}
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("jwt secret must be at least %d bytes, got %d", minSecretLength, len(c.Secret))
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("jwt expiration must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
