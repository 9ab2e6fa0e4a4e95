package testutil

import (
	"momentlog/internal/encryption"
	"momentlog/internal/journal"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() journal.Encryptor {
	return encryption.NewTestEncryptor()
}
