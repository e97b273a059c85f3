// prometheus.go - Prometheus metrics exporter
package server

import (
	"fmt"
	"net/http"
	"strings"
)

// PrometheusExporter converts internal metrics to Prometheus format
type PrometheusExporter struct{}

// NewPrometheusExporter creates a new Prometheus exporter
func NewPrometheusExporter() *PrometheusExporter {
	return &PrometheusExporter{}
}

// Handler returns an HTTP handler for the /metrics endpoint
func (p *PrometheusExporter) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, errKindMethod, "method not allowed")
			return
		}

		snapshot := GetMetrics().Snapshot()

		var output strings.Builder

		output.WriteString("# HELP relay_requests_total Total number of HTTP requests\n")
		output.WriteString("# TYPE relay_requests_total counter\n")
		output.WriteString(fmt.Sprintf("relay_requests_total %d\n\n", snapshot.RequestsTotal))

		output.WriteString("# HELP relay_request_errors Total HTTP errors by class\n")
		output.WriteString("# TYPE relay_request_errors counter\n")
		output.WriteString(fmt.Sprintf("relay_request_errors{class=\"4xx\"} %d\n", snapshot.RequestErrors4xx))
		output.WriteString(fmt.Sprintf("relay_request_errors{class=\"5xx\"} %d\n\n", snapshot.RequestErrors5xx))

		output.WriteString("# HELP relay_uploads_total Total number of file uploads\n")
		output.WriteString("# TYPE relay_uploads_total counter\n")
		output.WriteString(fmt.Sprintf("relay_uploads_total %d\n\n", snapshot.UploadsTotal))

		output.WriteString("# HELP relay_upload_bytes_total Total bytes accepted via upload\n")
		output.WriteString("# TYPE relay_upload_bytes_total counter\n")
		output.WriteString(fmt.Sprintf("relay_upload_bytes_total %d\n\n", snapshot.UploadBytesTotal))

		output.WriteString("# HELP relay_upload_errors_total Total number of failed uploads\n")
		output.WriteString("# TYPE relay_upload_errors_total counter\n")
		output.WriteString(fmt.Sprintf("relay_upload_errors_total %d\n\n", snapshot.UploadErrorsTotal))

		output.WriteString("# HELP relay_downloads_total Total number of file downloads\n")
		output.WriteString("# TYPE relay_downloads_total counter\n")
		output.WriteString(fmt.Sprintf("relay_downloads_total %d\n\n", snapshot.DownloadsTotal))

		output.WriteString("# HELP relay_download_bytes_total Total bytes served via download\n")
		output.WriteString("# TYPE relay_download_bytes_total counter\n")
		output.WriteString(fmt.Sprintf("relay_download_bytes_total %d\n\n", snapshot.DownloadBytesTotal))

		output.WriteString("# HELP relay_history_reads_total Total number of history listings\n")
		output.WriteString("# TYPE relay_history_reads_total counter\n")
		output.WriteString(fmt.Sprintf("relay_history_reads_total %d\n\n", snapshot.HistoryReadsTotal))

		output.WriteString("# HELP relay_webhook_deliveries Webhook delivery outcomes\n")
		output.WriteString("# TYPE relay_webhook_deliveries counter\n")
		output.WriteString(fmt.Sprintf("relay_webhook_deliveries{outcome=\"delivered\"} %d\n", snapshot.WebhookDeliveredTotal))
		output.WriteString(fmt.Sprintf("relay_webhook_deliveries{outcome=\"failed\"} %d\n", snapshot.WebhookFailedTotal))

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(output.String()))
	}
}
