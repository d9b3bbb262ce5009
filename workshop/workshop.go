// Package workshop is the client for the mod registry proxy service:
// name search, per-mod dependency lookup and batch mod info.
package workshop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Doer lets us test HTTP clients
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SearchResult is one hit from the registry's name search.
type SearchResult struct {
	ModID   string `json:"modId"`
	ModName string `json:"modName"`
	Author  string `json:"author,omitempty"`
	Size    string `json:"size,omitempty"`
	Image   string `json:"image,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Dependency is a direct dependency reported for a single mod.
type Dependency struct {
	ModID   string `json:"modId"`
	ModName string `json:"modName"`
	URL     string `json:"url,omitempty"`
}

// BatchItem is one entry of a batch info response. Error is set by the
// service on per-item failures; such items carry no other data.
type BatchItem struct {
	ModID        string       `json:"modId"`
	ModName      string       `json:"modName"`
	Version      string       `json:"version,omitempty"`
	Author       string       `json:"author,omitempty"`
	Size         string       `json:"size,omitempty"`
	URL          string       `json:"url,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// StatusError is a non-success HTTP response from the registry.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Client talks to a mod registry endpoint.
type Client struct {
	endpoint string
	http     Doer
}

// New creates a client for the given endpoint. A nil doer falls back to a
// plain http.Client with a request timeout.
func New(endpoint string, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     doer,
	}
}

// Search queries the registry by mod name. A blank or whitespace-only
// query returns an empty result without issuing a call.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	body, err := c.get(ctx, "/search?name="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	// the service has returned both a bare array and a wrapped object
	// over its lifetime; accept either
	var results []SearchResult
	if err = json.Unmarshal(body, &results); err == nil {
		return results, nil
	}
	var wrapped struct {
		Content      []SearchResult `json:"Content"`
		ContentLower []SearchResult `json:"content"`
	}
	if err = json.Unmarshal(body, &wrapped); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}
	if wrapped.Content != nil {
		return wrapped.Content, nil
	}
	return wrapped.ContentLower, nil
}

// Dependencies fetches the direct dependencies of a single mod.
func (c *Client) Dependencies(ctx context.Context, modID, modName string) ([]Dependency, error) {
	body, err := c.post(ctx, "/mod", map[string]string{
		"modId":   modID,
		"modName": modName,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Dependencies []Dependency `json:"dependencies"`
	}
	if err = json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode dependency response")
	}
	return resp.Dependencies, nil
}

// BatchInfo fetches info for a set of mod IDs in one call. Empty input
// short-circuits to empty output without a call.
func (c *Client) BatchInfo(ctx context.Context, modIDs []string) ([]BatchItem, error) {
	if len(modIDs) == 0 {
		return nil, nil
	}

	body, err := c.post(ctx, "/mods", map[string][]string{"mods": modIDs})
	if err != nil {
		return nil, err
	}

	var items []BatchItem
	if err = json.Unmarshal(body, &items); err != nil {
		return nil, errors.Wrap(err, "failed to decode batch info response")
	}
	return items, nil
}

// Count returns the registry's total mod count, doubling as a health
// check.
func (c *Client) Count(ctx context.Context) (int, error) {
	body, err := c.get(ctx, "/count")
	if err != nil {
		return 0, err
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err = json.Unmarshal(body, &resp); err != nil {
		return 0, errors.Wrap(err, "failed to decode count response")
	}
	return resp.Count, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close() // nolint

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return body, nil
}
