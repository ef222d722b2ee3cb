package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileSource loads a JSON or YAML document from disk.
type FileSource struct {
	Path   string
	logger *zap.Logger
}

func NewFileSource(path string, logger *zap.Logger) *FileSource {
	return &FileSource{Path: path, logger: logger}
}

func (s *FileSource) Load(ctx context.Context) (*Base, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening knowledge file: %w", err)
	}
	defer f.Close()

	return Parse(f, FormatFromPath(s.Path), s.logger)
}

func (s *FileSource) String() string {
	return s.Path
}

// HTTPSource fetches a JSON or YAML document with a GET request.
type HTTPSource struct {
	URL    string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPSource(rawURL string, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

func (s *HTTPSource) Load(ctx context.Context) (*Base, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating knowledge request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching knowledge document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("knowledge server returned %s", resp.Status)
	}

	format := FormatFromPath(req.URL.Path)
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = FormatYAML
	}
	return Parse(resp.Body, format, s.logger)
}

func (s *HTTPSource) String() string {
	return s.URL
}

// NewSource returns an HTTPSource for http(s) URLs and a FileSource otherwise.
func NewSource(location string, logger *zap.Logger) Source {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return NewHTTPSource(location, logger)
	}
	return NewFileSource(location, logger)
}
