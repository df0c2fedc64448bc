// Package media holds the media store adapters: binary assets live outside
// the catalog store and are referenced by locator.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported media format")
	ErrTooLarge          = errors.New("media exceeds maximum size")
	ErrInvalidLocator    = contracts.ErrInvalidLocator
)

// allowedTypes maps accepted MIME types to the extension used for keys.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Local stores assets on the local filesystem. Locators are URLs made of
// baseURL and a key of the form <purpose>/<uuid><ext>.
type Local struct {
	maxFileSize int
	basePath    string
	baseURL     string
	logger      hclog.Logger
}

// maxBytesWriter is a writer that errors when more than N bytes are written
type maxBytesWriter struct {
	w io.Writer
	n int
}

func (l *maxBytesWriter) Write(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, ErrTooLarge
	}
	if len(p) > l.n {
		n, err := l.w.Write(p[:l.n])
		l.n -= n
		if err != nil {
			return n, err
		}
		return n, ErrTooLarge
	}
	n, err := l.w.Write(p)
	l.n -= n
	return n, err
}

// NewLocal creates a Local store rooted at basePath. maxSize is the largest
// accepted asset in bytes.
func NewLocal(basePath, baseURL string, maxSize int, logger hclog.Logger) (*Local, error) {
	p, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p, os.ModePerm); err != nil {
		return nil, fmt.Errorf("unable to create media directory: %w", err)
	}

	return &Local{
		basePath:    p,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxFileSize: maxSize,
		logger:      logger,
	}, nil
}

func (l *Local) Store(ctx context.Context, a contracts.Asset, purpose contracts.Purpose) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(a.Content) > l.maxFileSize {
		return "", fmt.Errorf("%s: %w (%d bytes)", a.Filename, ErrTooLarge, l.maxFileSize)
	}

	mt := mimetype.Detect(a.Content)
	ext, ok := allowedTypes[mt.String()]
	if !ok {
		return "", fmt.Errorf("%s: %w: %s", a.Filename, ErrUnsupportedFormat, mt.String())
	}

	key := path.Join(string(purpose), uuid.New().String()+ext)
	if err := l.save(key, bytes.NewReader(a.Content)); err != nil {
		return "", err
	}

	l.logger.Debug("Stored asset", "key", key, "filename", a.Filename, "bytes", len(a.Content))
	return l.baseURL + "/" + key, nil
}

func (l *Local) Release(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := l.Key(locator)
	if err != nil {
		return err
	}

	if err := os.Remove(l.fullPath(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("unable to remove %s: %w", key, err)
	}

	l.logger.Debug("Released asset", "key", key)
	return nil
}

// Key extracts the storage key from a locator. Both full URLs and bare keys
// are accepted.
func (l *Local) Key(locator string) (string, error) {
	key := strings.TrimSpace(locator)
	if u, err := url.Parse(key); err == nil && u.Scheme != "" {
		key = u.Path
	}
	if l.baseURL != "" {
		base := l.baseURL
		if u, err := url.Parse(base); err == nil && u.Scheme != "" {
			base = u.Path
		}
		key = strings.TrimPrefix(key, base)
	}
	key = strings.TrimPrefix(key, "/")

	clean := path.Clean(key)
	if key == "" || clean == "." || strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}
	return clean, nil
}

// save writes contents to a temporary file next to the destination and
// renames it into place, so a partially written asset is never visible.
func (l *Local) save(key string, contents io.Reader) error {
	fp := l.fullPath(key)
	dir := filepath.Dir(fp)

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "temp-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	writer := &maxBytesWriter{w: tempFile, n: l.maxFileSize}
	if _, err := io.Copy(writer, contents); err != nil {
		tempFile.Close()
		return fmt.Errorf("unable to write to file: %w", err)
	}

	if err = tempFile.Close(); err != nil {
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	if err := os.Rename(tempPath, fp); err != nil {
		return fmt.Errorf("unable to move temporary file to final location: %w", err)
	}

	return nil
}

func (l *Local) fullPath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}
