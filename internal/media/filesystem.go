package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for photo payloads
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"

	"momentlog/internal/journal"
)

// thumbnailSize bounds both dimensions of generated photo thumbnails.
const thumbnailSize = 300

// FileSystemVault is a filesystem-based implementation of the MediaVault
// interface. It stores payloads in a directory structure:
//
//	<root>/
//	  photos/
//	    <id>.<format>   (original image)
//	  thumbs/
//	    <id>.jpg        (derived JPEG thumbnail)
//	  voice/
//	    <id>.<format>   (audio recording)
//
// URIs handed back to moment records are paths relative to the root, so a
// journal directory can be moved wholesale.
type FileSystemVault struct {
	root string
}

// NewFileSystemVault creates a media vault rooted at the given path.
func NewFileSystemVault(root string) (*FileSystemVault, error) {
	for _, dir := range []string{"photos", "thumbs", "voice"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create media directory: %w", err)
		}
	}
	return &FileSystemVault{root: root}, nil
}

// PutPhoto stores an image and a JPEG thumbnail derived from it.
// Returns the URI of the stored original.
func (v *FileSystemVault) PutPhoto(id string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding photo: %w", err)
	}

	uri := filepath.ToSlash(filepath.Join("photos", id+"."+format))
	if err := v.writeFile(filepath.Join(v.root, uri), data); err != nil {
		return "", err
	}

	thumb := resize.Thumbnail(thumbnailSize, thumbnailSize, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	if err := v.writeFile(v.thumbPath(id), buf.Bytes()); err != nil {
		return "", err
	}

	return uri, nil
}

// PutVoice stores an audio payload. Returns the URI of the stored audio.
func (v *FileSystemVault) PutVoice(id string, format string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading audio: %w", err)
	}

	uri := filepath.ToSlash(filepath.Join("voice", id+"."+format))
	if err := v.writeFile(filepath.Join(v.root, uri), data); err != nil {
		return "", err
	}
	return uri, nil
}

// Get writes the payload stored under uri to w.
func (v *FileSystemVault) Get(uri string, w io.Writer) error {
	path, err := v.resolve(uri)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("media not found: %s", uri)
		}
		return fmt.Errorf("failed to open media: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read media: %w", err)
	}
	return nil
}

// Remove deletes the payload stored under uri, including the thumbnail for
// photo payloads. Removing an absent uri is a no-op.
func (v *FileSystemVault) Remove(uri string) error {
	path, err := v.resolve(uri)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing media: %w", err)
	}

	if strings.HasPrefix(uri, "photos/") {
		base := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri))
		if err := os.Remove(v.thumbPath(base)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing thumbnail: %w", err)
		}
	}
	return nil
}

// ThumbnailPath returns the on-disk path of the thumbnail for a photo URI.
func (v *FileSystemVault) ThumbnailPath(uri string) string {
	base := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri))
	return v.thumbPath(base)
}

func (v *FileSystemVault) thumbPath(id string) string {
	return filepath.Join(v.root, "thumbs", id+".jpg")
}

// resolve maps a vault URI to an on-disk path, rejecting anything that would
// escape the root.
func (v *FileSystemVault) resolve(uri string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(uri))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid media uri: %s", uri)
	}
	return filepath.Join(v.root, cleaned), nil
}

// writeFile writes data to the specified path using atomic write (temp file + rename).
func (v *FileSystemVault) writeFile(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
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

// Compile-time check that FileSystemVault implements journal.MediaVault
var _ journal.MediaVault = (*FileSystemVault)(nil)
