// errors.go - Error taxonomy and structured JSON error responses.
//
// Every non-2xx response carries a machine-readable kind plus a human
// message. The only exception is the raw-bytes download success path,
// which bypasses JSON entirely.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinel errors for the storage layer.
var (
	// ErrBlobNotFound is returned when a blob key has no stored bytes.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrStorageUnavailable is returned on any filesystem or backend
	// failure other than a missing blob.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptStore is returned when the metadata document exists but
	// cannot be parsed. The history endpoint fails loudly on it rather
	// than degrading to an empty listing.
	ErrCorruptStore = errors.New("metadata store corrupt")
)

// Error kinds surfaced in JSON bodies.
const (
	errKindValidation = "validation_error"
	errKindNotFound   = "not_found"
	errKindStorage    = "storage_unavailable"
	errKindCorrupt    = "corrupt_store"
	errKindMethod     = "method_not_allowed"
)

// errorResponse is the envelope for every error body.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error body.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: kind, Message: message})
}

// writeStorageError maps a storage-layer error to the right status and kind.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBlobNotFound):
		writeError(w, http.StatusNotFound, errKindNotFound, "file not found")
	case errors.Is(err, ErrCorruptStore):
		writeError(w, http.StatusInternalServerError, errKindCorrupt, "upload history is unreadable")
	default:
		writeError(w, http.StatusInternalServerError, errKindStorage, "storage unavailable")
	}
}
