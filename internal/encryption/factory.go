package encryption

import (
	"fmt"

	"momentlog/internal/config"
	"momentlog/internal/journal"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration
// type. Returns (nil, nil) for type "none": snapshots stay plaintext unless
// the user opts in.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (journal.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
