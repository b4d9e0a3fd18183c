package gitea

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Options configure a Client.
type Options struct {
	Repo Repo
	// Ref is the default tree reference used when a call passes "".
	Ref string
	// Token, when set, is sent as a Gitea access token header.
	Token string
}

// Client reads directory listings and raw file contents from one repository.
// It performs no retries and no caching.
type Client struct {
	opts    Options
	fetcher Fetcher
	logger  *zap.Logger
}

// NewClient builds a Client on top of the provided fetch executor.
func NewClient(fetcher Fetcher, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{opts: opts, fetcher: fetcher, logger: logger}
}

// ListChildren lists the entries of the directory at path. A path that
// resolves to a file makes the contents API answer with an object instead of
// an array; that case yields an empty listing and no error, since only
// directories matter to the walk.
func (c *Client) ListChildren(ctx context.Context, path, ref string) ([]Entry, error) {
	listURL := c.opts.Repo.ContentsURL(path, c.resolveRef(ref))
	body, err := c.get(ctx, listURL)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

// FetchFile retrieves the raw bytes of filePath at ref. The raw URL is
// always synthesized rather than taken from a listing entry, so every fetch
// goes through the same host and ref.
func (c *Client) FetchFile(ctx context.Context, filePath, ref string) ([]byte, error) {
	rawURL := c.opts.Repo.RawURL(filePath, c.resolveRef(ref))
	return c.get(ctx, rawURL)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req := FetchRequest{URL: url}
	if c.opts.Token != "" {
		req.Headers = http.Header{}
		req.Headers.Set("Authorization", "token "+c.opts.Token)
	}

	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s for %s", resp.StatusCode, resp.Status, url)
	}
	c.logger.Debug("fetched",
		zap.String("url", url),
		zap.Int("bytes", len(resp.Body)),
		zap.Duration("dur", resp.Duration),
	)
	return resp.Body, nil
}

func (c *Client) resolveRef(ref string) string {
	if ref != "" {
		return ref
	}
	return c.opts.Ref
}
