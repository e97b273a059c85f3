package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// newTestServer builds a fully wired server over temp-dir storage.
// maxUpload of 0 keeps the built-in limit.
func newTestServer(t *testing.T, maxUpload int64) *Server {
	t.Helper()

	dir := t.TempDir()
	store := NewMetadataStore(filepath.Join(dir, "uploads.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("store init: %v", err)
	}

	blobs, err := NewDirBlobStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("blob init: %v", err)
	}

	return New(Config{
		Addr:           ":0",
		BaseURL:        "http://localhost:8080",
		MaxUploadBytes: maxUpload,
	}, store, blobs, NewWebhookNotifier())
}

// multipartBody builds a multipart form with an optional document part
// and optional webhookUrl field. Returns the body and content type.
func multipartBody(t *testing.T, filename string, content []byte, webhookURL string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		part, err := writer.CreateFormFile("document", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if webhookURL != "" {
		if err := writer.WriteField("webhookUrl", webhookURL); err != nil {
			t.Fatalf("write webhookUrl field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

// doUpload posts a multipart upload against the bare upload handler.
func doUpload(t *testing.T, srv *Server, filename string, content []byte, webhookURL string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, filename, content, webhookURL)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	srv.uploadHandler().ServeHTTP(rr, req)
	return rr
}
