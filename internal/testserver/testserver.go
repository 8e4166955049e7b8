// Package testserver runs an HTTP server on a loopback port for tests that
// exercise the full router stack.
package testserver

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var client = &http.Client{Timeout: 10 * time.Second}

// Start runs serve on a free loopback address and returns the base URL once
// the address accepts connections. shutdown runs on test cleanup.
func Start(t testing.TB, serve func(addr string), shutdown func() error) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	go serve(addr)

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 5*time.Second, 10*time.Millisecond, "server did not start on %s", addr)

	t.Cleanup(func() { _ = shutdown() })

	return "http://" + addr
}

// Request builds a request with an optional bearer token and JSON body
func Request(t testing.TB, method, url, token string, body []byte) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Do sends req and returns the status code and the full body
func Do(t testing.TB, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}
