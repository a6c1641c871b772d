package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrSecretNotConfigured is returned when neither a value nor a file is set.
var ErrSecretNotConfigured = errors.New("secret is not configured")

// Secret describes where a credential may come from. File wins over Value.
type Secret struct {
	Name  string
	Value string
	File  string
}

// LoadSecret resolves a secret from its file or inline value.
func LoadSecret(src Secret) (string, error) {
	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", src.Name, src.File, err)
		}
		value := strings.TrimSpace(string(data))
		if value == "" {
			return "", fmt.Errorf("%s file %q is empty", src.Name, src.File)
		}
		return value, nil
	}

	if value := strings.TrimSpace(src.Value); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%s: %w", src.Name, ErrSecretNotConfigured)
}
