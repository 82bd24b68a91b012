// Package gateway is the only layer that talks to the remote storefront
// API. Every client here normalizes responses through the transport
// package and treats timeouts, network errors and non-2xx statuses as the
// same uniform failure.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRequestFailed wraps every non-2xx response.
var ErrRequestFailed = errors.New("api request failed")

const (
	DefaultCartTimeout  = 15 * time.Second
	DefaultListTimeout  = 20 * time.Second
	DefaultProbeTimeout = 10 * time.Second
)

func newHTTPClient() *http.Client {
	return &http.Client{
		// Per-call deadlines come from the request context.
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// doJSON issues one request with the given deadline and returns the
// decoded JSON body as-is for the normalizers.
func doJSON(ctx context.Context, client *http.Client, method, url string, body any, timeout time.Duration) (any, error) {
	return doJSONAuth(ctx, client, method, url, body, timeout, "")
}

// doJSONAuth is doJSON with an optional bearer token.
func doJSONAuth(ctx context.Context, client *http.Client, method, url string, body any, timeout time.Duration, token string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var buf *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(raw)
	} else {
		buf = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}

// wireID sends numeric ids as JSON numbers, everything else verbatim.
func wireID(id string) any {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}
