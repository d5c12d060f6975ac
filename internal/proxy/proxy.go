// Package proxy forwards frontend requests to the backend API.
package proxy

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NonJSONMessage is the message of the payload synthesized when the backend
// answers with something other than JSON.
const NonJSONMessage = "upstream returned a non-JSON response"

// forwardedHeaders are copied verbatim from the incoming request.
var forwardedHeaders = []string{
	echo.HeaderAuthorization,
	echo.HeaderContentType,
	echo.HeaderAccept,
	echo.HeaderXRequestID,
}

// streamedHeaders are copied from the backend response by Stream.
var streamedHeaders = []string{
	echo.HeaderContentType,
	echo.HeaderContentLength,
	echo.HeaderLastModified,
	"Cache-Control",
	"ETag",
}

// ErrorPayload is returned to the caller when the backend cannot be reached
// or answers with a non-JSON body.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// Proxy forwards requests to a single backend.
type Proxy struct {
	target *url.URL
	client *http.Client
	logger *zap.Logger
}

// New creates a proxy for target. A zero timeout means no timeout.
func New(target string, timeout time.Duration, logger *zap.Logger) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", target)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proxy{
		target: u,
		client: &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		logger: logger,
	}, nil
}

// Close releases idle upstream connections.
func (p *Proxy) Close() {
	p.client.CloseIdleConnections()
}

// Forward relays the request to the backend with its method, path, query
// and body unchanged. JSON responses are returned as-is; anything else is
// wrapped in an ErrorPayload carrying the upstream status.
func (p *Proxy) Forward(c echo.Context) error {
	resp, err := p.do(c)
	if err != nil {
		return p.unreachable(c, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return p.unreachable(c, err)
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if isJSON(contentType) {
		return c.Blob(resp.StatusCode, contentType, body)
	}

	p.logger.Warn("backend returned non-JSON response",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", contentType))
	return c.JSON(resp.StatusCode, ErrorPayload{
		Code:    resp.StatusCode,
		Message: NonJSONMessage,
		Error:   string(body),
		Status:  resp.StatusCode,
	})
}

// Stream relays the request and copies the backend response body through
// without inspecting it. Used for uploaded files.
func (p *Proxy) Stream(c echo.Context) error {
	resp, err := p.do(c)
	if err != nil {
		return p.unreachable(c, err)
	}
	defer resp.Body.Close()

	header := c.Response().Header()
	for _, name := range streamedHeaders {
		if v := resp.Header.Get(name); v != "" {
			header.Set(name, v)
		}
	}
	c.Response().WriteHeader(resp.StatusCode)
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		p.logger.Warn("stream interrupted", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}
	return nil
}

func (p *Proxy) do(c echo.Context) (*http.Response, error) {
	req := c.Request()

	var body io.Reader
	if req.Body != nil && req.Body != http.NoBody {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	upstream, err := http.NewRequestWithContext(req.Context(), req.Method, p.urlFor(req.URL), body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	for _, name := range forwardedHeaders {
		if v := req.Header.Get(name); v != "" {
			upstream.Header.Set(name, v)
		}
	}
	if upstream.Header.Get(echo.HeaderXRequestID) == "" {
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			upstream.Header.Set(echo.HeaderXRequestID, id)
		}
	}

	return p.client.Do(upstream)
}

func (p *Proxy) urlFor(in *url.URL) string {
	u := *p.target
	u.Path = strings.TrimRight(p.target.Path, "/") + in.Path
	u.RawPath = ""
	u.RawQuery = in.RawQuery
	return u.String()
}

func (p *Proxy) unreachable(c echo.Context, err error) error {
	p.logger.Error("backend request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.String("target", p.target.String()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorPayload{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	})
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == echo.MIMEApplicationJSON || strings.HasSuffix(mediaType, "+json")
}
