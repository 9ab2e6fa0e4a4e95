package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"momentlog/internal/journal"
)

// FileSystemStorage persists each namespace as one file under a root
// directory:
//
//	<root>/
//	  events.json
//	  moments.json
//	  ...
//
// Writes are atomic (temp file + rename), which gives the single-namespace
// atomicity the Storage contract promises. When an encryptor is configured
// the file body is age ciphertext; reading then requires an unlocked
// decryption context.
type FileSystemStorage struct {
	root      string
	encryptor journal.Encryptor
	decctx    journal.DecryptionContext
}

// NewFileSystemStorage creates a filesystem storage backend rooted at the
// given directory. encryptor and decctx may both be nil for plaintext
// snapshots.
func NewFileSystemStorage(root string, encryptor journal.Encryptor, decctx journal.DecryptionContext) (*FileSystemStorage, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileSystemStorage{
		root:      root,
		encryptor: encryptor,
		decctx:    decctx,
	}, nil
}

// Put stores data under the namespace, replacing any previous value.
func (s *FileSystemStorage) Put(namespace string, data []byte) error {
	body := data
	if s.encryptor != nil {
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(data), &buf); err != nil {
			return fmt.Errorf("encrypting snapshot: %w", err)
		}
		body = buf.Bytes()
	}
	return s.writeFile(s.path(namespace), body)
}

// Get returns the data stored under the namespace, or (nil, nil) if the
// namespace has never been written.
func (s *FileSystemStorage) Get(namespace string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	if s.encryptor == nil {
		return raw, nil
	}
	if s.decctx == nil {
		return nil, fmt.Errorf("snapshot %s is encrypted and no key is unlocked", namespace)
	}

	var buf bytes.Buffer
	if err := s.decctx.Decrypt(bytes.NewReader(raw), &buf); err != nil {
		return nil, fmt.Errorf("decrypting snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Delete removes the namespace. Deleting an absent namespace is a no-op.
func (s *FileSystemStorage) Delete(namespace string) error {
	if err := os.Remove(s.path(namespace)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

// Close is a no-op for filesystem storage.
func (s *FileSystemStorage) Close() error { return nil }

func (s *FileSystemStorage) path(namespace string) string {
	return filepath.Join(s.root, namespace+".json")
}

// writeFile writes data to the specified path using atomic write (temp file + rename).
func (s *FileSystemStorage) writeFile(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, bytes.NewReader(data)); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStorage implements journal.Storage
var _ journal.Storage = (*FileSystemStorage)(nil)
