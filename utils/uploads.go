package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// PublicUploadsPrefix is the URL prefix under which the uploads root is served.
	PublicUploadsPrefix = "/uploads/"
	defaultUploadExt    = ".jpg"
)

// ErrUploadTooLarge is returned when an uploaded file exceeds the per-file limit.
var ErrUploadTooLarge = errors.New("uploaded file too large")

// Placement describes where one uploaded file goes. It is computed without
// touching the disk; SaveUpload performs the write.
type Placement struct {
	Dir        string // <uploads-root>/<client>
	Path       string // Dir joined with the final file name
	PublicPath string // /uploads/<client>/<file>, forward slashes
}

// PlaceUpload resolves the destination of originalName for the given
// sanitized client folder. The file name is the sanitized base, a hyphen,
// the millisecond timestamp of now and the original extension (".jpg" when
// missing). Two files with the same base and extension placed within the
// same millisecond resolve to the same path.
func PlaceUpload(root, client, originalName string, now time.Time) (Placement, error) {
	name := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}
	ext := filepath.Ext(name)
	if ext == name {
		ext = "" // dotfile such as ".hidden"
	}
	base := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = defaultUploadExt
	}

	dir := filepath.Join(root, client)
	file := fmt.Sprintf("%s-%d%s", SanitizeFileBase(base), now.UnixMilli(), ext)
	dst := filepath.Join(dir, file)

	rel, err := filepath.Rel(root, dst)
	if err != nil {
		return Placement{}, fmt.Errorf("resolve upload path: %w", err)
	}
	return Placement{
		Dir:        dir,
		Path:       dst,
		PublicPath: PublicUploadsPrefix + filepath.ToSlash(rel),
	}, nil
}

// SaveUpload creates the placement directory if needed and writes src to the
// destination, replacing any existing file. A positive maxBytes caps the size;
// oversized files are removed and ErrUploadTooLarge returned.
func SaveUpload(p Placement, src io.Reader, maxBytes int64) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}
	out, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	reader := src
	if maxBytes > 0 {
		reader = &io.LimitedReader{R: src, N: maxBytes + 1}
	}
	written, err := io.Copy(out, reader)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p.Path)
		return fmt.Errorf("write upload file: %w", err)
	}
	if maxBytes > 0 && written > maxBytes {
		_ = os.Remove(p.Path)
		return ErrUploadTooLarge
	}
	return nil
}
