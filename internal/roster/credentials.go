package roster

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrCredentialsNotFound = errors.New("service account credentials not found")

// LoadCredentials resolves the Google service-account JSON. A non-empty
// base64 value (set by deployment platforms) wins over the file path.
func LoadCredentials(filePath, base64Value string) ([]byte, error) {
	if base64Value != "" {
		decoded, err := base64.StdEncoding.DecodeString(base64Value)
		if err != nil {
			return nil, fmt.Errorf("decode base64 credentials: %w", err)
		}
		if !json.Valid(decoded) {
			return nil, fmt.Errorf("%w: decoded value is not valid JSON", ErrCredentialsNotFound)
		}
		return decoded, nil
	}

	if filePath == "" {
		return nil, fmt.Errorf("%w: no credentials file or base64 value configured", ErrCredentialsNotFound)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsNotFound, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrCredentialsNotFound, filePath)
	}
	return data, nil
}
