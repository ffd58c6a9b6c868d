package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		size      int64
		wantErr   error
	}{
		{name: "png", mediaType: "image/png", size: 1024},
		{name: "exactly max", mediaType: "image/jpeg", size: MaxSize},
		{name: "one over max", mediaType: "image/jpeg", size: MaxSize + 1, wantErr: ErrTooLarge},
		{name: "text", mediaType: "text/plain", size: 10, wantErr: ErrNotImage},
		{name: "empty type", mediaType: "", size: 10, wantErr: ErrNotImage},
		{name: "type checked first", mediaType: "application/pdf", size: MaxSize * 2, wantErr: ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("f", tt.mediaType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.mediaType, vErr.MediaType)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := Validate("notes.txt", "text/plain", 3)
	assert.EqualError(t, err, "notes.txt: Please select an image file.")

	err = Validate("", "image/png", MaxSize+1)
	assert.EqualError(t, err, "Image size must be less than 10MB.")
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, "image/png", DetectMediaType("a.png", nil))
	assert.Equal(t, "image/jpeg", DetectMediaType("a.JPG", nil))
	assert.Equal(t, "image/png", DetectMediaType("noext", pngHeader))
	assert.Equal(t, "text/plain", DetectMediaType("a.txt", nil))
}

func TestEncodeDataURI(t *testing.T) {
	got := EncodeDataURI("image/gif", []byte("GIF89a"))
	assert.Equal(t, "data:image/gif;base64,"+base64.StdEncoding.EncodeToString([]byte("GIF89a")), got)
}

func TestFromBytes(t *testing.T) {
	a, err := FromBytes("shot", "", pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "shot", a.Name)
	assert.Equal(t, "image/png", a.MediaType)
	assert.Equal(t, int64(len(pngHeader)), a.Size)
	assert.True(t, strings.HasPrefix(a.DataURI, "data:image/png;base64,"))

	part := a.Part()
	assert.Equal(t, a.DataURI, part.URL)
	assert.Equal(t, "image/png", part.MediaType)
}

func TestFromBytes_Rejects(t *testing.T) {
	_, err := FromBytes("doc.pdf", "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "cat.png", pngHeader)

	a, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "cat.png", a.Name)
	assert.Equal(t, "image/png", a.MediaType)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(a.DataURI, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, raw)
}

func TestLoad_SniffsUnknownExtension(t *testing.T) {
	path := writeFile(t, "capture.bin", pngHeader)

	a, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.MediaType)
}

func TestLoad_NotImage(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("hello"))

	_, err := Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoad_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxSize+1))
	require.NoError(t, f.Close())

	_, err = Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestLoad_CanceledContext(t *testing.T) {
	path := writeFile(t, "cat.png", pngHeader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	big := filepath.Join(t.TempDir(), "huge.png")
	require.NoError(t, os.WriteFile(big, pngHeader, 0o600))
	require.NoError(t, os.Truncate(big, MaxSize+1))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "png", path: writeFile(t, "cat.png", pngHeader)},
		{name: "unknown extension is left to Load", path: writeFile(t, "capture.bin", pngHeader)},
		{name: "non-image extension", path: writeFile(t, "report.pdf", []byte("%PDF-1.4")), wantErr: ErrNotImage},
		{name: "too large", path: big, wantErr: ErrTooLarge},
		{name: "missing", path: filepath.Join(t.TempDir(), "nope.png"), wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.path)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheck_Directory(t *testing.T) {
	assert.Error(t, Check(t.TempDir()))
}
