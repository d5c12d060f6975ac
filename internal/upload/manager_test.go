package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "sitecms/internal/errors"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"), bytes.Repeat([]byte{0}, 64)...)

type part struct {
	field, filename, contentType string
	body                         []byte
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("title", "caption"))
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(filepath.Join(t.TempDir(), "uploads"), zap.NewNop())
	require.NoError(t, m.EnsureDirs())
	return m
}

func serve(t *testing.T, m *Manager, category string, required bool, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperrors.Handler(false, zap.NewNop())
	e.POST("/upload", func(c echo.Context) error {
		f, ok := FromContext(c)
		if !ok {
			return c.JSON(http.StatusOK, map[string]string{"url": "", "title": c.FormValue("title")})
		}
		return c.JSON(http.StatusOK, map[string]string{"url": f.URL, "title": c.FormValue("title")})
	}, m.Middleware(category, required))

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestEnsureDirs_Idempotent(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.EnsureDirs())

	for _, name := range []string{"products", "cases", "news", "documents", "gallery", "hero"} {
		info, err := os.Stat(m.Dir(name))
		require.NoError(t, err, name)
		assert.True(t, info.IsDir())
	}
}

func TestMiddleware_AcceptsValidFiles(t *testing.T) {
	tests := []struct {
		name     string
		category string
		part     part
		wantExt  string
	}{
		{"declared png", "gallery", part{"image", "photo.png", "image/png", pngBytes}, ".png"},
		{"sniffed png without extension", "hero", part{"image", "banner", "application/octet-stream", pngBytes}, ".png"},
		{"declared pdf", "documents", part{"file", "brochure.pdf", "application/pdf", []byte("%PDF-1.4\n%test")}, ".pdf"},
		{"extension fallback", "documents", part{"file", "Price List.xlsx", "application/x-unknown", []byte("PK\x03\x04fake")}, ".xlsx"},
		{"image named as html", "news", part{"image", "x.html", "image/png", pngBytes}, ".png"},
		{"jpeg extension normalised", "cases", part{"image", "site.JPEG", "image/jpeg", []byte("\xff\xd8\xff\xe0fake")}, ".jpg"},
		{"pdf named as html", "documents", part{"file", "brochure.html", "application/pdf", []byte("%PDF-1.4\n%test")}, ".pdf"},
		{"large product image", "products", part{"image", "p.webp", "image/webp", bytes.Repeat([]byte{1}, 11*megabyte)}, ".webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			body, ct := multipartBody(t, tt.part)

			rec := serve(t, m, tt.category, true, body, ct)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "caption", resp["title"])

			pattern := regexp.MustCompile(fmt.Sprintf(`^/uploads/%s/%s-\d+-[0-9a-f]{12}%s$`, tt.category, tt.category, regexp.QuoteMeta(tt.wantExt)))
			assert.Regexp(t, pattern, resp["url"])

			info, err := os.Stat(filepath.Join(m.Dir(tt.category), filepath.Base(resp["url"])))
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.part.body)), info.Size())
		})
	}
}

func TestMiddleware_RejectsWithoutWriting(t *testing.T) {
	tests := []struct {
		name     string
		category string
		part     part
		wantMsg  string
	}{
		{"text in gallery", "gallery", part{"image", "notes.txt", "text/plain", []byte("hello")}, "JPEG, PNG, GIF or WebP"},
		{"executable document", "documents", part{"file", "setup.exe", "application/x-msdownload", []byte("MZ")}, "PDF, Word"},
		{"svg is not an allowed image", "news", part{"image", "logo.svg", "image/svg+xml", []byte("<svg/>")}, "only"},
		{"empty file", "gallery", part{"image", "empty.png", "image/png", nil}, "empty"},
		{"gallery size cap", "gallery", part{"image", "big.png", "image/png", bytes.Repeat([]byte{1}, 10*megabyte+1)}, "10 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			body, ct := multipartBody(t, tt.part)

			rec := serve(t, m, tt.category, true, body, ct)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Empty(t, dirEntries(t, m.Dir(tt.category)))
		})
	}
}

func TestMiddleware_MissingFile(t *testing.T) {
	m := newTestManager(t)

	body, ct := multipartBody(t, part{"wrong-field", "a.png", "image/png", pngBytes})
	rec := serve(t, m, "gallery", true, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `field \"image\"`)

	body, ct = multipartBody(t)
	rec = serve(t, m, "gallery", false, body, ct)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"","title":"caption"}`, rec.Body.String())

	rec = serve(t, m, "gallery", true, bytes.NewBufferString(`{"title":"x"}`), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "multipart/form-data")
}

func TestRemove_RejectsTraversal(t *testing.T) {
	m := newTestManager(t)
	victim := filepath.Join(m.Dir("products"), "keep.png")
	require.NoError(t, os.WriteFile(victim, pngBytes, 0o644))
	outside := filepath.Join(m.Root(), "..", "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

	for _, name := range []string{"../products/keep.png", "../../secret.txt", "", ".", "/../products/keep.png"} {
		err := m.Remove("gallery", name)
		assert.ErrorIs(t, err, apperrors.ErrPathOutsideCategory, name)
	}
	assert.ErrorIs(t, m.RemoveURL("gallery", "/uploads/gallery/../products/keep.png"), apperrors.ErrPathOutsideCategory)
	assert.ErrorIs(t, m.RemoveURL("gallery", "/uploads/products/keep.png"), apperrors.ErrPathOutsideCategory)

	assert.FileExists(t, victim)
	assert.FileExists(t, outside)
}

func TestRemove_DeletesInsideCategory(t *testing.T) {
	m := newTestManager(t)
	target := filepath.Join(m.Dir("gallery"), "gallery-1-abc.png")
	require.NoError(t, os.WriteFile(target, pngBytes, 0o644))

	require.NoError(t, m.RemoveURL("gallery", "/uploads/gallery/gallery-1-abc.png"))
	assert.NoFileExists(t, target)

	// Already gone and foreign URLs are no-ops.
	assert.NoError(t, m.Remove("gallery", "gallery-1-abc.png"))
	assert.NoError(t, m.RemoveURL("gallery", "https://cdn.example.com/a.png"))
	assert.ErrorIs(t, m.Remove("videos", "a.mp4"), apperrors.ErrUnknownCategory)
}
