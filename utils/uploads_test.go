package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1718000000123)

func TestPlaceUpload(t *testing.T) {
	root := filepath.Join("srv", "uploads")

	p, err := PlaceUpload(root, SanitizeName("Jane Doe!"), "photo.PNG", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "jane-doe"), p.Dir)
	assert.Equal(t, filepath.Join(root, "jane-doe", "photo-1718000000123.PNG"), p.Path)
	assert.Equal(t, "/uploads/jane-doe/photo-1718000000123.PNG", p.PublicPath)
}

func TestPlaceUploadNames(t *testing.T) {
	cases := []struct {
		original string
		want     string
	}{
		{"photo.PNG", "photo-1718000000123.PNG"},
		{"no_extension", "no_extension-1718000000123.jpg"},
		{"My Holiday  Pic.jpeg", "My-Holiday-Pic-1718000000123.jpeg"},
		{"???.png", "upload-1718000000123.png"},
		{"", "upload-1718000000123.jpg"},
		{"../../evil.gif", "evil-1718000000123.gif"},
		{`C:\fakepath\scan.tiff`, "scan-1718000000123.tiff"},
		{".hidden", "hidden-1718000000123.jpg"},
		{"archive.tar.gz", "archivetar-1718000000123.gz"},
	}
	for _, tc := range cases {
		p, err := PlaceUpload("uploads", "client", tc.original, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/client/"+tc.want, p.PublicPath, "original %q", tc.original)
		assert.Equal(t, "uploads", filepath.Dir(p.Dir))
	}
}

func TestPlaceUploadPublicPathUsesForwardSlashes(t *testing.T) {
	p, err := PlaceUpload(t.TempDir(), "acme", "a.png", fixedNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.PublicPath, "/uploads/acme/"))
	assert.NotContains(t, p.PublicPath, `\`)
}

func TestSaveUploadCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	p, err := PlaceUpload(root, "new-client", "photo.png", fixedNow)
	require.NoError(t, err)

	require.NoError(t, SaveUpload(p, bytes.NewReader([]byte("png-bytes")), 0))

	got, err := os.ReadFile(p.Path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))

	// directory already exists: second save must not fail
	p2, err := PlaceUpload(root, "new-client", "other.png", fixedNow)
	require.NoError(t, err)
	assert.NoError(t, SaveUpload(p2, bytes.NewReader([]byte("x")), 0))
}

// Same base, same extension and same millisecond: the second file silently
// replaces the first. This is a known limitation of the naming scheme.
func TestSaveUploadSameMillisecondCollisionOverwrites(t *testing.T) {
	root := t.TempDir()
	first, err := PlaceUpload(root, "jane-doe", "photo.png", fixedNow)
	require.NoError(t, err)
	second, err := PlaceUpload(root, "jane-doe", "photo.png", fixedNow)
	require.NoError(t, err)
	require.Equal(t, first.Path, second.Path)

	require.NoError(t, SaveUpload(first, strings.NewReader("first"), 0))
	require.NoError(t, SaveUpload(second, strings.NewReader("second"), 0))

	got, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(first.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveUploadTooLarge(t *testing.T) {
	root := t.TempDir()
	p, err := PlaceUpload(root, "client", "big.png", fixedNow)
	require.NoError(t, err)

	err = SaveUpload(p, bytes.NewReader(make([]byte, 11)), 10)
	assert.ErrorIs(t, err, ErrUploadTooLarge)
	_, statErr := os.Stat(p.Path)
	assert.True(t, os.IsNotExist(statErr), "oversized file is removed")

	assert.NoError(t, SaveUpload(p, bytes.NewReader(make([]byte, 10)), 10))
}
