// Package attachment validates image files and encodes them as base64 data
// URIs for image_url content parts.
package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/germanamz/llm7chat/pkg/chats/content"
)

// MaxSize is the largest accepted image, in bytes.
const MaxSize = 10 << 20

// sniffLen is how many leading bytes are inspected when the extension does
// not identify the media type.
const sniffLen = 512

// Sentinel reasons wrapped by ValidationError.
var (
	ErrNotImage = errors.New("Please select an image file.")        //nolint:staticcheck // user-facing text
	ErrTooLarge = errors.New("Image size must be less than 10MB.") //nolint:staticcheck // user-facing text
)

// ValidationError reports a file that cannot be staged. It never changes any
// staged state; callers surface it to the user and carry on.
type ValidationError struct {
	Name      string
	MediaType string
	Size      int64
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Attachment is a decoded image ready to be sent.
type Attachment struct {
	Name      string
	MediaType string
	Size      int64
	DataURI   string
}

// Part returns the attachment as an image content part.
func (a Attachment) Part() content.Image {
	return content.Image{URL: a.DataURI, MediaType: a.MediaType}
}

// Validate checks the media type and size of a candidate file.
func Validate(name, mediaType string, size int64) error {
	if !strings.HasPrefix(mediaType, "image/") {
		return &ValidationError{Name: name, MediaType: mediaType, Size: size, Err: ErrNotImage}
	}
	if size > MaxSize {
		return &ValidationError{Name: name, MediaType: mediaType, Size: size, Err: ErrTooLarge}
	}
	return nil
}

// Check runs the validation that needs no file contents: the file must exist,
// must not exceed MaxSize, and an extension that maps to a media type must map
// to an image type. Files without a known extension are sniffed by Load.
func Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("attachment: stat: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("attachment: %s is a directory", path)
	}

	name := filepath.Base(path)
	mediaType := extensionType(name)
	if mediaType != "" && !strings.HasPrefix(mediaType, "image/") {
		return &ValidationError{Name: name, MediaType: mediaType, Size: info.Size(), Err: ErrNotImage}
	}
	if info.Size() > MaxSize {
		return &ValidationError{Name: name, MediaType: mediaType, Size: info.Size(), Err: ErrTooLarge}
	}
	return nil
}

// DetectMediaType resolves the media type from the file extension and falls
// back to content sniffing on head. Parameters such as charset are dropped.
func DetectMediaType(name string, head []byte) string {
	if mt := extensionType(name); mt != "" {
		return mt
	}
	mt := http.DetectContentType(head)
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return mt
}

// extensionType returns the media type registered for the extension of name,
// or "" when the extension says nothing about the contents.
func extensionType(name string) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if mt == "application/octet-stream" {
		return ""
	}
	return mt
}

// EncodeDataURI returns data as a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FromBytes validates and encodes an in-memory image. An empty mediaType is
// detected from name and data.
func FromBytes(name, mediaType string, data []byte) (Attachment, error) {
	if mediaType == "" {
		mediaType = DetectMediaType(name, head(data))
	}

	size := int64(len(data))
	if err := Validate(name, mediaType, size); err != nil {
		return Attachment{}, err
	}

	return Attachment{
		Name:      name,
		MediaType: mediaType,
		Size:      size,
		DataURI:   EncodeDataURI(mediaType, data),
	}, nil
}

// Load reads the image at path, validating type and size before reading the
// whole file. It is the one blocking step of staging and honours ctx.
func Load(ctx context.Context, path string) (Attachment, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return Attachment{}, fmt.Errorf("attachment: open: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Attachment{}, fmt.Errorf("attachment: stat: %w", err)
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("attachment: %s is a directory", path)
	}

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Attachment{}, fmt.Errorf("attachment: read: %w", err)
	}

	name := filepath.Base(path)
	mediaType := DetectMediaType(name, buf[:n])
	if err := Validate(name, mediaType, info.Size()); err != nil {
		return Attachment{}, err
	}

	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}

	rest, err := io.ReadAll(io.LimitReader(f, MaxSize+1-int64(n)))
	if err != nil {
		return Attachment{}, fmt.Errorf("attachment: read: %w", err)
	}

	data := append(buf[:n], rest...)
	if err := Validate(name, mediaType, int64(len(data))); err != nil {
		return Attachment{}, err
	}

	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}

	return Attachment{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		DataURI:   EncodeDataURI(mediaType, data),
	}, nil
}

func head(data []byte) []byte {
	if len(data) > sniffLen {
		return data[:sniffLen]
	}
	return data
}
