package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocolly/colly/v2"

	"sitescout/internal/gitea"
)

func TestFetchReturnsBodyAndStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Resp", "ok")
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	f := New(Config{Timeout: 2 * time.Second})
	resp, err := f.Fetch(context.Background(), gitea.FetchRequest{URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Status != "200 OK" {
		t.Fatalf("unexpected status: %d %q", resp.StatusCode, resp.Status)
	}
	if string(resp.Body) != "hello" {
		t.Fatalf("unexpected body %q", resp.Body)
	}
	if resp.Headers.Get("X-Resp") != "ok" {
		t.Fatalf("expected response headers copied, got %+v", resp.Headers)
	}
}

func TestFetchPassesThroughErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{Timeout: 2 * time.Second})
	resp, err := f.Fetch(context.Background(), gitea.FetchRequest{URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch() error = %v, want status pass-through", err)
	}
	if resp.StatusCode != http.StatusNotFound || resp.Status != "404 Not Found" {
		t.Fatalf("unexpected status: %d %q", resp.StatusCode, resp.Status)
	}
}

func TestFetchSendsConfiguredHeaders(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		gotAuth string
		gotUA   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		mu.Unlock()
	}))
	defer srv.Close()

	f := New(Config{UserAgent: "sitescout-test", Timeout: 2 * time.Second})
	headers := http.Header{}
	headers.Set("Authorization", "token tkn123")
	if _, err := f.Fetch(context.Background(), gitea.FetchRequest{URL: srv.URL, Headers: headers}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "token tkn123" {
		t.Fatalf("expected auth header, got %q", gotAuth)
	}
	if gotUA != "sitescout-test" {
		t.Fatalf("expected user agent override, got %q", gotUA)
	}
}

func TestFetchRepeatsSameURL(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f := New(Config{Timeout: 2 * time.Second})
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), gitea.FetchRequest{URL: srv.URL}); err != nil {
			t.Fatalf("Fetch() #%d error = %v", i+1, err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 hits, got %d", hits.Load())
	}
}

func TestFetchCanceledContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	f := New(Config{Timeout: 5 * time.Second})
	_, err := f.Fetch(ctx, gitea.FetchRequest{URL: srv.URL})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchSelfSignedTLS(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "secure")
	}))
	defer srv.Close()

	strict := New(Config{Timeout: 2 * time.Second})
	if _, err := strict.Fetch(context.Background(), gitea.FetchRequest{URL: srv.URL}); err == nil {
		t.Fatal("expected certificate error without insecure_skip_verify")
	}

	insecure := New(Config{Timeout: 2 * time.Second, InsecureSkipVerify: true})
	resp, err := insecure.Fetch(context.Background(), gitea.FetchRequest{URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch() with InsecureSkipVerify error = %v", err)
	}
	if string(resp.Body) != "secure" {
		t.Fatalf("unexpected body %q", resp.Body)
	}
}

func TestConfigureCollectorHooks(t *testing.T) {
	t.Parallel()

	f := New(Config{})
	req := gitea.FetchRequest{
		URL:     "https://example.com",
		Headers: http.Header{"X-Trace": {"yes"}},
	}
	start := time.Unix(0, 0)
	var result gitea.FetchResponse
	var fetchErr error

	hooks := &stubHooks{}
	f.configureCollectorHooks(hooks, req, start, &result, &fetchErr)
	if hooks.onRequest == nil || hooks.onResponse == nil || hooks.onError == nil {
		t.Fatal("expected hooks to be registered")
	}

	collyReq := &colly.Request{Headers: &http.Header{}}
	hooks.onRequest(collyReq)
	if collyReq.Headers.Get("X-Trace") != "yes" {
		t.Fatalf("expected header propagation, got %+v", collyReq.Headers)
	}

	hooks.onResponse(&colly.Response{
		StatusCode: http.StatusNotFound,
		Body:       []byte("missing"),
		Headers:    &http.Header{"X-Resp": {"ok"}},
		Request: &colly.Request{
			URL: mustParseURL(t, "https://example.com"),
		},
	})
	if result.StatusCode != http.StatusNotFound || string(result.Body) != "missing" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.HasPrefix(result.Status, "404") {
		t.Fatalf("expected status text synthesized, got %q", result.Status)
	}

	hooks.onError(nil, errors.New("boom"))
	if fetchErr == nil || fetchErr.Error() != "boom" {
		t.Fatalf("expected fetchErr set, got %v", fetchErr)
	}
}

func TestCopyHeadersHandlesNil(t *testing.T) {
	t.Parallel()

	f := New(Config{})
	collyReq := &colly.Request{Headers: &http.Header{}}
	f.copyHeaders(gitea.FetchRequest{}, collyReq)
	if len(*collyReq.Headers) != 0 {
		t.Fatalf("expected no headers to be copied, got %+v", *collyReq.Headers)
	}
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse url %q: %v", raw, err)
	}
	return u
}

type stubHooks struct {
	onRequest  colly.RequestCallback
	onResponse colly.ResponseCallback
	onError    colly.ErrorCallback
}

func (s *stubHooks) OnRequest(cb colly.RequestCallback) {
	s.onRequest = cb
}

func (s *stubHooks) OnResponse(cb colly.ResponseCallback) {
	s.onResponse = cb
}

func (s *stubHooks) OnError(cb colly.ErrorCallback) {
	s.onError = cb
}
