// Package media stores uploaded video and preview files on local disk.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/riverdub/riverdub/internal/domain"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

// DefaultMaxUploadBytes caps a single uploaded file.
const DefaultMaxUploadBytes int64 = 500 << 20

const maxNameAttempts = 16

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Store saves uploads to a directory as "<unix millis>-<safe name>".
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for file name prefixes.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, maxBytes int64, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	s := &Store{dir: dir, maxBytes: maxBytes, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MaxBytes returns the per-file size limit.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Dir returns the upload directory.
func (s *Store) Dir() string { return s.dir }

// SafeName reduces an uploaded file name to its base name with every character
// outside [a-zA-Z0-9._-] replaced by "_".
func SafeName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return unsafeChars.ReplaceAllString(base, "_")
}

// Save writes r to a new file and returns the stored name and size.
// Files above the size limit are removed and reported as domain.ErrUploadTooLarge.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, int64, error) {
	f, name, err := s.create(SafeName(originalName))
	if err != nil {
		return "", 0, err
	}
	path := f.Name()

	n, err := io.Copy(f, io.LimitReader(readerWithContext{ctx: ctx, r: r}, s.maxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write upload %s: %w", name, err)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("close upload %s: %w", name, closeErr)
	case n > s.maxBytes:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("%s exceeds %d bytes: %w", name, s.maxBytes, domain.ErrUploadTooLarge)
	}
	return name, n, nil
}

// create opens a fresh file, bumping the millisecond prefix on collision.
func (s *Store) create(safe string) (*os.File, string, error) {
	millis := s.now().UnixMilli()
	for range maxNameAttempts {
		name := strconv.FormatInt(millis, 10) + "-" + safe
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create upload: %w", err)
		}
		millis++
	}
	return nil, "", fmt.Errorf("create upload %s: too many name collisions", safe)
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid stored name %q", name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload %s: %w", name, err)
	}
	return nil
}

// URL returns the public URL of a stored file.
func URL(name string) string {
	return URLPrefix + name
}

// Handler serves stored files under URLPrefix. Directory listings are not served.
func (s *Store) Handler() http.Handler {
	files := http.StripPrefix(URLPrefix, http.FileServer(http.Dir(s.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Check verifies the upload directory is writable.
func (s *Store) Check(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("upload dir not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (rc readerWithContext) Read(p []byte) (int, error) {
	if err := rc.ctx.Err(); err != nil {
		return 0, err
	}
	return rc.r.Read(p)
}
