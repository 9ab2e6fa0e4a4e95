package journal

import "io"

// Encryptor protects journal snapshots at rest. Encryption uses a public key
// and needs no passphrase; decryption requires unlocking the private key
// first.
type Encryptor interface {
	// Setup generates and stores a new key pair, protecting the private
	// key with the passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase and returns a
	// context for decrypting data.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if key material exists.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked identity for decrypting data.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
