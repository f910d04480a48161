package sampler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// Source resolves to encoded image bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

type FileSource string

func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(string(f))
}

func (f FileSource) String() string { return string(f) }

type URLSource struct {
	URL    string
	Client *http.Client
}

func (s URLSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: status %d", s.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s URLSource) String() string { return s.URL }

// ParseSource treats http(s) locations as URLs and everything else as a path.
func ParseSource(loc string) Source {
	if u, err := url.Parse(loc); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return URLSource{URL: loc}
	}
	return FileSource(loc)
}
