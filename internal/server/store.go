package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Status tracks an upload record through its lifecycle. Records move
// pending -> completed when no webhook is requested, or
// pending -> processing -> completed/failed when one is. A record never
// regresses to an earlier state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// UploadRecord describes one accepted upload. Filename is the
// server-generated blob key ({uuid}_{sanitized name}); OriginalName is
// the untrusted client-supplied name and is never used as a path.
type UploadRecord struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	OriginalName    string    `json:"originalName"`
	Size            int64     `json:"size"`
	MimeType        string    `json:"mimeType"`
	UploadDate      time.Time `json:"uploadDate"`
	WebhookURL      string    `json:"webhookUrl,omitempty"`
	WebhookSent     bool      `json:"webhookSent"`
	WebhookResponse string    `json:"webhookResponse,omitempty"`
	Status          Status    `json:"status"`
}

// MetadataStore persists the full upload history as a single JSON
// document (an array of UploadRecord). Every append reads the whole
// document, mutates it in memory, and rewrites it; the internal mutex
// serializes appends so concurrent uploads cannot lose records. Records
// are never updated or deleted once written.
type MetadataStore struct {
	mu   sync.Mutex
	path string
}

// NewMetadataStore returns a store backed by the given JSON file.
// Call Init before first use.
func NewMetadataStore(path string) *MetadataStore {
	return &MetadataStore{path: path}
}

// Init idempotently creates the parent directory and, if the document
// is absent, seeds it with an empty array.
func (s *MetadataStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat metadata file: %w", err)
	}
	if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("seed metadata file: %w", err)
	}
	return nil
}

// Append adds one record to the end of the document.
func (s *MetadataStore) Append(rec UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return err
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write metadata file: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// List returns all records in insertion order. Callers re-sort for
// display. An unparsable document yields ErrCorruptStore; this store
// does not silently degrade to an empty history.
func (s *MetadataStore) List() ([]UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

// readAll loads the document. Caller must hold s.mu.
func (s *MetadataStore) readAll() ([]UploadRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []UploadRecord{}, nil
		}
		return nil, fmt.Errorf("%w: read metadata file: %v", ErrStorageUnavailable, err)
	}

	var records []UploadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	return records, nil
}
