package fleet

import (
	"context"
	"fmt"
	"os"

	"github.com/OpenTransitTools/straeto/foundation/httpclient"
)

// Source provides a raw bus status document
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource retrieves the status document from a url
type HTTPSource struct {
	client *httpclient.Client
	url    string
}

// NewHTTPSource creates a HTTPSource for url using client
func NewHTTPSource(client *httpclient.Client, url string) *HTTPSource {
	return &HTTPSource{client: client, url: url}
}

func (h *HTTPSource) Name() string {
	return "network"
}

// Fetch retrieves the document, failing on transport errors and non 2xx responses
func (h *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	if len(h.url) == 0 {
		return nil, fmt.Errorf("no status url configured")
	}
	content, err := h.client.GetBytes(ctx, h.url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve bus status from %s: %w", h.url, err)
	}
	return content, nil
}

// FileSource reads a status document saved on the local file system
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource reading path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Name() string {
	return "file"
}

// Fetch reads the whole file
func (f *FileSource) Fetch(_ context.Context) ([]byte, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("unable to read bus status file: %w", err)
	}
	return content, nil
}
