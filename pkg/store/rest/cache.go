package rest

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"
)

type cacheEntry struct {
	status  int
	header  http.Header
	body    []byte
	fetched time.Time
}

// CachingDoer is a time-bounded memoization decorator applied at the transport
// boundary. Responses are keyed by method, URL and request body; only 2xx
// responses are cached. It is not part of the report builder's contract and is
// wired in (or left out) by the entrypoints.
type CachingDoer struct {
	next Doer
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCachingDoer(next Doer, ttl time.Duration) *CachingDoer {
	return &CachingDoer{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachingDoer) Do(req *http.Request) (*http.Response, error) {
	key, err := c.cacheKey(req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()

	if ok && c.now().Sub(entry.fetched) < c.ttl {
		return entry.response(req), nil
	}

	resp, err := c.next.Do(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		c.mu.Lock()
		c.entries[key] = cacheEntry{
			status:  resp.StatusCode,
			header:  resp.Header.Clone(),
			body:    body,
			fetched: c.now(),
		}
		c.mu.Unlock()
	}

	return resp, nil
}

func (c *CachingDoer) cacheKey(req *http.Request) (string, error) {
	key := req.Method + " " + req.URL.String()
	if req.Body == nil || req.Body == http.NoBody {
		return key, nil
	}

	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return key + " " + string(body), nil
}

func (e cacheEntry) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: e.status,
		Header:     e.header.Clone(),
		Body:       io.NopCloser(bytes.NewReader(e.body)),
		Request:    req,
	}
}
