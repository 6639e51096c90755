package client

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const testUserAgent = "test-browser/1.0"

func doGet(t *testing.T, transport http.RoundTripper, url string) (*http.Response, []byte) {
	t.Helper()
	httpClient := &http.Client{Transport: transport}
	resp, err := httpClient.Get(url)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Read body failed: %v", err)
	}
	return resp, body
}

func TestBrowserTransport_BrowserHeaders(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	transport := NewBrowserTransport(testUserAgent, nil)
	_, body := doGet(t, transport, server.URL)

	if string(body) != "ok" {
		t.Errorf("Expected body ok, got %q", body)
	}
	if got := gotHeaders.Get("User-Agent"); got != testUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, testUserAgent)
	}
	if got := gotHeaders.Get("Accept-Language"); got == "" {
		t.Error("Expected Accept-Language header to be set")
	}
	if got := gotHeaders.Get("Accept-Encoding"); got != "gzip, br, zstd" {
		t.Errorf("Accept-Encoding = %q, want %q", got, "gzip, br, zstd")
	}
	if got := gotHeaders.Get("Accept"); got == "" {
		t.Error("Expected Accept header to be set")
	}
}

func TestBrowserTransport_PreservesExplicitUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("User-Agent", "custom-agent")

	httpClient := &http.Client{Transport: NewBrowserTransport(testUserAgent, nil)}
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if gotUA != "custom-agent" {
		t.Errorf("User-Agent = %q, want custom-agent", gotUA)
	}
	// The original request must not be mutated by the transport clone.
	if req.Header.Get("Accept-Encoding") != "" {
		t.Error("Original request headers were modified")
	}
}

func TestBrowserTransport_Decompression(t *testing.T) {
	payload := []byte(`<html><body>fn_detail(1001)</body></html>`)

	tests := []struct {
		name     string
		encoding string
		compress func(t *testing.T, data []byte) []byte
	}{
		{
			name:     "gzip",
			encoding: "gzip",
			compress: func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				gw := gzip.NewWriter(&buf)
				if _, err := gw.Write(data); err != nil {
					t.Fatalf("gzip write: %v", err)
				}
				if err := gw.Close(); err != nil {
					t.Fatalf("gzip close: %v", err)
				}
				return buf.Bytes()
			},
		},
		{
			name:     "brotli",
			encoding: "br",
			compress: func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				bw := brotli.NewWriter(&buf)
				if _, err := bw.Write(data); err != nil {
					t.Fatalf("brotli write: %v", err)
				}
				if err := bw.Close(); err != nil {
					t.Fatalf("brotli close: %v", err)
				}
				return buf.Bytes()
			},
		},
		{
			name:     "zstd",
			encoding: "zstd",
			compress: func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				zw, err := zstd.NewWriter(&buf)
				if err != nil {
					t.Fatalf("zstd writer: %v", err)
				}
				if _, err := zw.Write(data); err != nil {
					t.Fatalf("zstd write: %v", err)
				}
				if err := zw.Close(); err != nil {
					t.Fatalf("zstd close: %v", err)
				}
				return buf.Bytes()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed := tt.compress(t, payload)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", tt.encoding)
				_, _ = w.Write(compressed)
			}))
			defer server.Close()

			transport := NewBrowserTransport(testUserAgent, nil)
			resp, body := doGet(t, transport, server.URL)

			if string(body) != string(payload) {
				t.Errorf("Decompressed body = %q, want %q", body, payload)
			}
			if resp.Header.Get("Content-Encoding") != "" {
				t.Error("Content-Encoding header should be removed after decompression")
			}
		})
	}
}

func TestBrowserTransport_UnknownEncodingPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "mystery")
		_, _ = w.Write([]byte("raw"))
	}))
	defer server.Close()

	transport := NewBrowserTransport(testUserAgent, nil)
	resp, body := doGet(t, transport, server.URL)

	if string(body) != "raw" {
		t.Errorf("Expected raw body, got %q", body)
	}
	if resp.Header.Get("Content-Encoding") != "mystery" {
		t.Error("Unknown encoding header should be preserved")
	}
}

func TestParseContentEncoding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"gzip", "gzip"},
		{"GZIP ", "gzip"},
		{"gzip, br", "br"},
		{"  br ,  zstd  ", "zstd"},
	}
	for _, tt := range tests {
		if got := parseContentEncoding(tt.header); got != tt.want {
			t.Errorf("parseContentEncoding(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
