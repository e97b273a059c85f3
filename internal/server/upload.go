package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// defaultMaxUploadBytes caps a single upload at 10 MiB unless
// RELAY_MAX_UPLOAD_BYTES overrides it.
const defaultMaxUploadBytes = 10 << 20

// uploadResp is the JSON response returned after a successful upload.
type uploadResp struct {
	Success         bool   `json:"success"`
	DocumentID      string `json:"documentId"`
	Filename        string `json:"filename"`
	Size            int64  `json:"size"`
	DownloadURL     string `json:"downloadUrl"`
	WebhookSent     bool   `json:"webhookSent"`
	WebhookResponse string `json:"webhookResponse,omitempty"`
}

// uploadHandler handles POST /upload requests.
//
// Required form field: document (the file, at most the configured size limit).
// Optional form field: webhookUrl (absolute http/https URL notified of the upload).
//
// Flow: validate input, generate an id, persist the blob, deliver the
// webhook if one was requested, then append the finished record to the
// metadata store. The record is written exactly once, after the webhook
// outcome is known, so no reader ever observes a "processing" record.
// A failed webhook never fails the upload; its outcome lands in the
// record's status and webhookResponse fields.
func (s *Server) uploadHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, errKindMethod, "method not allowed")
			return
		}

		limit := s.cfg.MaxUploadBytes
		if limit <= 0 {
			limit = defaultMaxUploadBytes
		}
		// Multipart framing adds overhead beyond the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))

		mr, err := r.MultipartReader()
		if err != nil {
			writeError(w, http.StatusBadRequest, errKindValidation, "malformed multipart form")
			return
		}

		var (
			fileData     []byte
			origName     string
			mimeType     string
			webhookURL   string
			haveDocument bool
		)

		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					GetMetrics().RecordUploadError()
					writeError(w, http.StatusBadRequest, errKindValidation,
						fmt.Sprintf("upload exceeds the %d byte limit", limit))
					return
				}
				writeError(w, http.StatusBadRequest, errKindValidation, "malformed multipart form")
				return
			}

			switch part.FormName() {
			case "document":
				data, err := io.ReadAll(io.LimitReader(part, limit+1))
				_ = part.Close()
				if err != nil {
					writeError(w, http.StatusBadRequest, errKindValidation, "could not read file")
					return
				}
				if int64(len(data)) > limit {
					GetMetrics().RecordUploadError()
					writeError(w, http.StatusBadRequest, errKindValidation,
						fmt.Sprintf("file exceeds the %d byte limit", limit))
					return
				}
				fileData = data
				origName = part.FileName()
				mimeType = part.Header.Get("Content-Type")
				haveDocument = true
			case "webhookUrl":
				v, err := io.ReadAll(io.LimitReader(part, 4096))
				_ = part.Close()
				if err != nil {
					writeError(w, http.StatusBadRequest, errKindValidation, "could not read webhookUrl")
					return
				}
				webhookURL = string(v)
			default:
				_ = part.Close()
			}
		}

		if !haveDocument {
			writeError(w, http.StatusBadRequest, errKindValidation, "no file uploaded: form field \"document\" is required")
			return
		}
		if webhookURL != "" && !validWebhookURL(webhookURL) {
			writeError(w, http.StatusBadRequest, errKindValidation, "webhookUrl must be an absolute http or https URL")
			return
		}
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		start := time.Now()
		rid := RequestIDFromContext(r.Context())
		id := uuid.New().String()
		storedName := id + "_" + SanitizeFilename(origName)
		downloadURL := s.cfg.BaseURL + "/download/" + url.PathEscape(storedName)

		// Blob first. If this fails the request aborts with no metadata
		// written; if anything after it fails, the blob stays behind
		// (orphan, no rollback).
		if err := s.blobs.Put(storedName, fileData); err != nil {
			Error("blob write failed", map[string]interface{}{"rid": rid, "key": storedName}, err)
			GetMetrics().RecordUploadError()
			writeStorageError(w, err)
			return
		}

		rec := UploadRecord{
			ID:           id,
			Filename:     storedName,
			OriginalName: origName,
			Size:         int64(len(fileData)),
			MimeType:     mimeType,
			UploadDate:   time.Now().UTC(),
			Status:       StatusPending,
		}

		if webhookURL != "" {
			rec.WebhookURL = webhookURL
			rec.Status = StatusProcessing

			result := s.notifier.Notify(r.Context(), webhookURL, WebhookPayload{
				DocumentID:  id,
				Filename:    origName,
				Size:        rec.Size,
				MimeType:    mimeType,
				UploadDate:  rec.UploadDate.Format(time.RFC3339),
				DownloadURL: downloadURL,
			})

			rec.WebhookSent = true
			rec.WebhookResponse = result.Summary
			if result.Delivered {
				rec.Status = StatusCompleted
				Info("webhook delivered", map[string]interface{}{"rid": rid, "id": id, "url": webhookURL})
			} else {
				rec.Status = StatusFailed
				Warn("webhook delivery failed", map[string]interface{}{
					"rid": rid, "id": id, "url": webhookURL, "summary": result.Summary,
				})
			}
			GetMetrics().RecordWebhook(result.Delivered)
		} else {
			rec.Status = StatusCompleted
		}

		if err := s.store.Append(rec); err != nil {
			Error("metadata append failed, blob orphaned", map[string]interface{}{"rid": rid, "key": storedName}, err)
			GetMetrics().RecordUploadError()
			writeStorageError(w, err)
			return
		}

		Info("upload stored", map[string]interface{}{
			"rid": rid, "id": id, "key": storedName, "bytes": rec.Size, "status": rec.Status,
		})
		GetMetrics().RecordUpload(rec.Size, time.Since(start))

		writeJSON(w, http.StatusOK, uploadResp{
			Success:         true,
			DocumentID:      id,
			Filename:        origName,
			Size:            rec.Size,
			DownloadURL:     downloadURL,
			WebhookSent:     rec.WebhookSent,
			WebhookResponse: rec.WebhookResponse,
		})
	})
}
