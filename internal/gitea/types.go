// Package gitea wraps the two remote primitives the walk needs from a
// Gitea-compatible host: list a directory and fetch raw file bytes.
package gitea

import (
	"context"
	"net/http"
	"time"
)

// Entry kinds reported by the contents API.
const (
	EntryTypeFile = "file"
	EntryTypeDir  = "dir"
)

// Entry represents a file or directory in a repository listing. Field names
// mirror the Gitea contents API wire shape.
type Entry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool { return e.Type == EntryTypeFile }

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type == EntryTypeDir }

// FetchRequest describes a single GET executed by a Fetcher.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation. Status
// carries the textual form ("200 OK") used in error translation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Fetcher executes one HTTP GET and returns the response regardless of
// status code. Implementations do not retry.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}
