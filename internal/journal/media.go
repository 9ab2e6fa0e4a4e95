package journal

import "io"

// MediaVault stores the binary payloads of photo and voice moments and hands
// back stable URIs for the moment records. The store itself only ever sees
// the URIs.
type MediaVault interface {
	// PutPhoto stores an image and a JPEG thumbnail derived from it.
	// Returns the URI of the stored original.
	PutPhoto(id string, r io.Reader) (string, error)

	// PutVoice stores an audio payload. format is the file extension
	// without the dot (e.g. "m4a"). Returns the URI of the stored audio.
	PutVoice(id string, format string, r io.Reader) (string, error)

	// Get writes the payload stored under uri to w.
	Get(uri string, w io.Writer) error

	// Remove deletes the payload stored under uri, including any derived
	// thumbnail. Removing an absent uri is a no-op.
	Remove(uri string) error
}
