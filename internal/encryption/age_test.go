package encryption

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"momentlog/internal/config"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()

	dir := t.TempDir()
	return NewAgeEncryptor(config.EncryptionConfig{
		Type:           "age",
		PublicKeyPath:  filepath.Join(dir, "keys", "momentlog.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "momentlog.key"),
	})
}

func TestAgeEncryptor(t *testing.T) {
	t.Run("is not configured before setup", func(t *testing.T) {
		e := newTestAgeEncryptor(t)

		if e.IsConfigured() {
			t.Error("IsConfigured() = true before Setup")
		}
	})

	t.Run("setup writes both key files", func(t *testing.T) {
		e := newTestAgeEncryptor(t)

		if err := e.Setup("hunter2"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		if !e.IsConfigured() {
			t.Error("IsConfigured() = false after Setup")
		}
	})

	t.Run("encrypt then unlock and decrypt round-trips", func(t *testing.T) {
		e := newTestAgeEncryptor(t)
		if err := e.Setup("hunter2"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}

		plaintext := []byte(`[{"id":"e1","name":"GopherCon"}]`)
		var ciphertext bytes.Buffer
		if err := e.Encrypt(bytes.NewReader(plaintext), &ciphertext); err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}
		if bytes.Contains(ciphertext.Bytes(), []byte("GopherCon")) {
			t.Error("ciphertext contains plaintext")
		}

		decctx, err := e.Unlock("hunter2")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}

		var decrypted bytes.Buffer
		if err := decctx.Decrypt(bytes.NewReader(ciphertext.Bytes()), &decrypted); err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if !bytes.Equal(decrypted.Bytes(), plaintext) {
			t.Errorf("Decrypt() = %s, want %s", decrypted.Bytes(), plaintext)
		}
	})

	t.Run("unlock fails with the wrong passphrase", func(t *testing.T) {
		e := newTestAgeEncryptor(t)
		if err := e.Setup("hunter2"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}

		if _, err := e.Unlock("wrong"); err == nil {
			t.Error("Unlock() error = nil, want error")
		}
	})
}

func TestTestEncryptor(t *testing.T) {
	t.Run("round-trips through the header", func(t *testing.T) {
		e := NewTestEncryptor()

		var ciphertext bytes.Buffer
		if err := e.Encrypt(strings.NewReader("payload"), &ciphertext); err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}
		if ciphertext.String() == "payload" {
			t.Error("Encrypt() output equals input")
		}

		decctx, err := e.Unlock("")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		var plaintext bytes.Buffer
		if err := decctx.Decrypt(bytes.NewReader(ciphertext.Bytes()), &plaintext); err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if plaintext.String() != "payload" {
			t.Errorf("Decrypt() = %q, want payload", plaintext.String())
		}
	})

	t.Run("rejects data without the header", func(t *testing.T) {
		decctx, err := NewTestEncryptor().Unlock("")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}

		var out bytes.Buffer
		if err := decctx.Decrypt(strings.NewReader("plain data here"), &out); err == nil {
			t.Error("Decrypt() error = nil, want header error")
		}
	})
}

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Run("none returns nil encryptor", func(t *testing.T) {
		e, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: "none"})
		if err != nil {
			t.Fatalf("NewEncryptorFromConfig() error = %v", err)
		}
		if e != nil {
			t.Errorf("encryptor = %T, want nil", e)
		}
	})

	t.Run("age returns an age encryptor", func(t *testing.T) {
		e, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: "age"})
		if err != nil {
			t.Fatalf("NewEncryptorFromConfig() error = %v", err)
		}
		if _, ok := e.(*AgeEncryptor); !ok {
			t.Errorf("encryptor = %T, want *AgeEncryptor", e)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		if _, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: "rot13"}); err == nil {
			t.Error("NewEncryptorFromConfig() error = nil, want error")
		}
	})
}
