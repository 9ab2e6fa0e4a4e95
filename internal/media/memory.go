package media

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"momentlog/internal/journal"
)

// MemoryVault is an in-memory implementation of the MediaVault interface.
// It stores payloads verbatim and derives no thumbnails, making it useful
// for testing. Safe for concurrent use.
type MemoryVault struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemoryVault creates a new in-memory media vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{payloads: make(map[string][]byte)}
}

// PutPhoto stores an image payload without decoding it.
func (v *MemoryVault) PutPhoto(id string, r io.Reader) (string, error) {
	return v.put("photos/"+id, r)
}

// PutVoice stores an audio payload.
func (v *MemoryVault) PutVoice(id string, format string, r io.Reader) (string, error) {
	return v.put("voice/"+id+"."+format, r)
}

// Get writes the payload stored under uri to w.
func (v *MemoryVault) Get(uri string, w io.Writer) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, ok := v.payloads[uri]
	if !ok {
		return fmt.Errorf("media not found: %s", uri)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write media: %w", err)
	}
	return nil
}

// Remove deletes the payload stored under uri. Removing an absent uri is a
// no-op.
func (v *MemoryVault) Remove(uri string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.payloads, uri)
	return nil
}

func (v *MemoryVault) put(uri string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read payload: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.payloads[uri] = data
	return uri, nil
}

// Compile-time check that MemoryVault implements journal.MediaVault
var _ journal.MediaVault = (*MemoryVault)(nil)
