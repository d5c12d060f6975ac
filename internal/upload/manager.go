// Package upload stores files posted by the admin dashboard under one
// directory per content category and serves them back under /uploads.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "sitecms/internal/errors"
)

// URLPrefix is where uploaded files are served from.
const URLPrefix = "/uploads"

// multipartOverhead leaves room for boundaries and the other form fields
// when the request body is capped at the category size limit.
const multipartOverhead = 1 * megabyte

const contextKey = "upload.file"

// File describes a stored upload.
type File struct {
	Category     string `json:"category"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	Path         string `json:"-"`
}

// Manager owns the upload root and its category directories.
type Manager struct {
	root       string
	categories map[string]Category
	logger     *zap.Logger
	now        func() time.Time
}

// NewManager creates a manager rooted at root with DefaultCategories.
func NewManager(root string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		root:       root,
		categories: DefaultCategories(),
		logger:     logger,
		now:        time.Now,
	}
}

// Root returns the upload root directory.
func (m *Manager) Root() string {
	return m.root
}

// Category returns the named category.
func (m *Manager) Category(name string) (Category, bool) {
	c, ok := m.categories[name]
	return c, ok
}

// CategoryNames returns the configured category names in sorted order.
func (m *Manager) CategoryNames() []string {
	names := make([]string, 0, len(m.categories))
	for name := range m.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir returns the directory holding files of category.
func (m *Manager) Dir(category string) string {
	return filepath.Join(m.root, category)
}

// EnsureDirs creates the root and every category directory. It is safe to
// call repeatedly and is meant to run once before the server accepts traffic.
func (m *Manager) EnsureDirs() error {
	for _, name := range m.CategoryNames() {
		if err := os.MkdirAll(m.Dir(name), 0o755); err != nil {
			return fmt.Errorf("create upload dir %s: %w", name, err)
		}
	}
	return nil
}

// Middleware accepts a single file in the category's form field, stores it
// and makes it available to the next handler through FromContext. When
// required is false a request without the file passes through untouched.
func (m *Manager) Middleware(category string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cat, ok := m.categories[category]
			if !ok {
				return fmt.Errorf("%w: %s", apperrors.ErrUnknownCategory, category)
			}
			file, err := m.Receive(c, category, cat.Field)
			if err != nil {
				if !required && errors.Is(err, errMissingFile) {
					return next(c)
				}
				return err
			}
			c.Set(contextKey, file)
			return next(c)
		}
	}
}

// FromContext returns the file stored by Middleware, if any.
func FromContext(c echo.Context) (*File, bool) {
	f, ok := c.Get(contextKey).(*File)
	return f, ok && f != nil
}

var errMissingFile = fmt.Errorf("%w: missing file", apperrors.ErrInvalidInput)

// Receive reads field from a multipart request, validates it against
// category and writes it to disk. Rejected files are never written.
func (m *Manager) Receive(c echo.Context, category, field string) (*File, error) {
	cat, ok := m.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCategory, category)
	}

	req := c.Request()
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if mediaType != echo.MIMEMultipartForm {
		return nil, fmt.Errorf("%w: request must be multipart/form-data", errMissingFile)
	}
	if req.MultipartForm == nil {
		req.Body = http.MaxBytesReader(c.Response(), req.Body, cat.MaxSize+multipartOverhead)
	}

	header, err := c.FormFile(field)
	if err != nil {
		switch {
		case errors.Is(err, http.ErrMissingFile):
			return nil, fmt.Errorf("%w: field %q", errMissingFile, field)
		case isTooLarge(err):
			return nil, m.reject(cat, fmt.Sprintf("file exceeds the %s limit", cat.limitText()))
		default:
			return nil, fmt.Errorf("%w: malformed multipart body: %v", apperrors.ErrInvalidInput, err)
		}
	}
	return m.Save(category, header)
}

// Save validates header against category and writes it under a generated name.
func (m *Manager) Save(category string, header *multipart.FileHeader) (*File, error) {
	cat, ok := m.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCategory, category)
	}
	if header.Size > cat.MaxSize {
		return nil, m.reject(cat, fmt.Sprintf("file exceeds the %s limit", cat.limitText()))
	}
	if header.Size == 0 {
		return nil, m.reject(cat, "file is empty")
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mimeType, err := detectType(header, src)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	typeOK, extOK := cat.allowsType(mimeType), cat.allowsExt(ext)
	if !typeOK && !extOK {
		m.logger.Info("upload rejected",
			zap.String("category", category),
			zap.String("filename", header.Filename),
			zap.String("mime", mimeType))
		return nil, m.reject(cat, fmt.Sprintf("only %s are allowed", cat.Description))
	}
	if !extOK {
		// The stored name decides how /uploads serves the file.
		ext = ""
		if known := mimetype.Lookup(mimeType); known != nil {
			ext = known.Extension()
		}
	}

	name := m.filename(category, ext)
	dstPath := filepath.Join(m.Dir(category), name)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	return &File{
		Category:     category,
		Filename:     name,
		OriginalName: filepath.Base(header.Filename),
		URL:          path.Join(URLPrefix, category, name),
		Size:         written,
		MimeType:     mimeType,
		Path:         dstPath,
	}, nil
}

// Remove deletes filename from category after checking that the resolved
// path stays inside the category directory. A missing file is not an error.
func (m *Manager) Remove(category, filename string) error {
	if _, ok := m.categories[category]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownCategory, category)
	}
	dir, err := filepath.Abs(m.Dir(category))
	if err != nil {
		return fmt.Errorf("resolve upload dir: %w", err)
	}
	target, err := filepath.Abs(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("resolve upload path: %w", err)
	}
	if !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		m.logger.Warn("refusing to delete file outside upload dir",
			zap.String("category", category),
			zap.String("filename", filename))
		return fmt.Errorf("%w: %s", apperrors.ErrPathOutsideCategory, filename)
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	m.logger.Info("upload removed", zap.String("category", category), zap.String("filename", filename))
	return nil
}

// ParseURL splits a /uploads/<category>/<name> URL. ok is false for URLs
// that are not served from the upload root.
func ParseURL(url string) (category, filename string, ok bool) {
	rest, ok := strings.CutPrefix(url, URLPrefix+"/")
	if !ok {
		return "", "", false
	}
	category, filename, _ = strings.Cut(rest, "/")
	return category, filename, true
}

// RemoveURL deletes the file behind url when it is stored in category.
// URLs outside the upload root are ignored; upload URLs of another
// category are refused.
func (m *Manager) RemoveURL(category, url string) error {
	owner, filename, ok := ParseURL(url)
	if !ok {
		return nil
	}
	if owner != category {
		m.logger.Warn("refusing to delete file of another category",
			zap.String("category", category),
			zap.String("url", url))
		return fmt.Errorf("%w: %s", apperrors.ErrPathOutsideCategory, url)
	}
	return m.Remove(category, filename)
}

// Discard removes a file stored earlier in the same request, used when the
// handler fails after the upload was written.
func (m *Manager) Discard(f *File) {
	if f == nil {
		return
	}
	if err := m.Remove(f.Category, f.Filename); err != nil {
		m.logger.Warn("discard upload", zap.String("url", f.URL), zap.Error(err))
	}
}

func (m *Manager) filename(category, ext string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s%s", category, m.now().UnixMilli(), random, ext)
}

func (m *Manager) reject(cat Category, reason string) error {
	return fmt.Errorf("%w: %s (%s accepts %s up to %s)",
		apperrors.ErrUploadRejected, reason, cat.Name, cat.Description, cat.limitText())
}

// detectType returns the part's declared MIME type, sniffing the content
// when the client sent none or a generic one.
func detectType(header *multipart.FileHeader, src multipart.File) (string, error) {
	declared, _, _ := mime.ParseMediaType(header.Header.Get(echo.HeaderContentType))
	if declared != "" && declared != echo.MIMEOctetStream {
		return declared, nil
	}

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	sniffed, _, _ := mime.ParseMediaType(detected.String())
	return sniffed, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
