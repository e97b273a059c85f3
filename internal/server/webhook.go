package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// webhookTimeout bounds each delivery attempt. A request still in
// flight at the deadline counts as a failed delivery.
const webhookTimeout = 10 * time.Second

// WebhookPayload is the body sent to the caller-supplied endpoint
// after an upload is stored.
type WebhookPayload struct {
	DocumentID  string `json:"documentId"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimeType"`
	UploadDate  string `json:"uploadDate"`
	DownloadURL string `json:"downloadUrl"`
}

// WebhookResult classifies one delivery attempt. Delivered is true iff
// the endpoint answered with a 2xx status.
type WebhookResult struct {
	Delivered bool
	Summary   string
}

// WebhookNotifier performs one POST per notify call. No retries: a
// webhook is best-effort and its outcome is folded into the upload
// record, never into the request result.
type WebhookNotifier struct {
	client  *http.Client
	timeout time.Duration
}

// NewWebhookNotifier returns a notifier with the fixed delivery timeout.
func NewWebhookNotifier() *WebhookNotifier {
	return &WebhookNotifier{
		client:  &http.Client{Timeout: webhookTimeout},
		timeout: webhookTimeout,
	}
}

// validWebhookURL reports whether raw is an absolute http/https URL.
// Callers validate before invoking Notify; the notifier itself assumes
// a well-formed URL.
func validWebhookURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Notify posts the payload to url. Transport failures of any kind
// (DNS, refused connection, TLS, timeout) are absorbed into the result;
// this method never returns an error to its caller.
func (n *WebhookNotifier) Notify(ctx context.Context, webhookURL string, payload WebhookPayload) WebhookResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return WebhookResult{Delivered: false, Summary: fmt.Sprintf("marshal payload: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return WebhookResult{Delivered: false, Summary: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "UploadRelay-Webhook/1.0")
	req.Header.Set("X-Webhook-Event", "document.uploaded")

	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return WebhookResult{Delivered: false, Summary: fmt.Sprintf("webhook timed out after %s", n.timeout)}
		}
		return WebhookResult{Delivered: false, Summary: fmt.Sprintf("webhook request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return WebhookResult{Delivered: true, Summary: fmt.Sprintf("Webhook sent successfully. Status: %d", resp.StatusCode)}
	}
	return WebhookResult{Delivered: false, Summary: fmt.Sprintf("webhook returned status %d", resp.StatusCode)}
}
