package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testPayload() WebhookPayload {
	return WebhookPayload{
		DocumentID:  "doc-1",
		Filename:    "report.pdf",
		Size:        42,
		MimeType:    "application/pdf",
		UploadDate:  "2024-05-01T12:00:00Z",
		DownloadURL: "http://localhost:8080/download/doc-1_report.pdf",
	}
}

func TestWebhookNotifier_Success(t *testing.T) {
	var gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	result := NewWebhookNotifier().Notify(context.Background(), ts.URL, testPayload())

	if !result.Delivered {
		t.Errorf("expected delivered=true, got summary %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "200") {
		t.Errorf("expected status in summary, got %q", result.Summary)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected application/json content type, got %q", gotContentType)
	}
}

func TestWebhookNotifier_2xxRange(t *testing.T) {
	tests := []struct {
		status    int
		delivered bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{301, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		result := NewWebhookNotifier().Notify(context.Background(), ts.URL, testPayload())
		ts.Close()

		if result.Delivered != tt.delivered {
			t.Errorf("status %d: expected delivered=%v, got %v (%s)",
				tt.status, tt.delivered, result.Delivered, result.Summary)
		}
	}
}

func TestWebhookNotifier_TransportFailure(t *testing.T) {
	// Server already closed: connection refused.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	result := NewWebhookNotifier().Notify(context.Background(), url, testPayload())

	if result.Delivered {
		t.Error("expected delivered=false for refused connection")
	}
	if result.Summary == "" {
		t.Error("expected a failure summary")
	}
}

func TestWebhookNotifier_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	n := &WebhookNotifier{
		client:  &http.Client{Timeout: 50 * time.Millisecond},
		timeout: 50 * time.Millisecond,
	}

	start := time.Now()
	result := n.Notify(context.Background(), ts.URL, testPayload())

	if result.Delivered {
		t.Error("expected delivered=false on timeout")
	}
	if !strings.Contains(result.Summary, "timed out") {
		t.Errorf("expected timeout summary, got %q", result.Summary)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("notify did not respect the timeout")
	}
}

func TestValidWebhookURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://example.com/hook", true},
		{"https://example.com/hook", true},
		{"http://localhost:9000", true},
		{"", false},
		{"example.com/hook", false},
		{"ftp://example.com", false},
		{"javascript:alert(1)", false},
		{"http://", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		if got := validWebhookURL(tt.url); got != tt.want {
			t.Errorf("validWebhookURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
