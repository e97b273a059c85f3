package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestMetadataStore_InitIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "uploads.json")
	store := NewMetadataStore(path)

	if err := store.Init(); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("second init: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list after init: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty store, got %d records", len(records))
	}
}

func TestMetadataStore_InitPreservesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads.json")
	store := NewMetadataStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	rec := UploadRecord{ID: "a", Filename: "a_file.txt", Status: StatusCompleted, UploadDate: time.Now().UTC()}
	if err := store.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	// Re-init must not wipe the document.
	if err := store.Init(); err != nil {
		t.Fatalf("re-init: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" {
		t.Errorf("expected surviving record, got %+v", records)
	}
}

func TestMetadataStore_AppendOrder(t *testing.T) {
	store := NewMetadataStore(filepath.Join(t.TempDir(), "uploads.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	for i := 0; i < 3; i++ {
		rec := UploadRecord{
			ID:         fmt.Sprintf("id-%d", i),
			Filename:   fmt.Sprintf("id-%d_f.txt", i),
			Status:     StatusCompleted,
			UploadDate: time.Now().UTC(),
		}
		if err := store.Append(rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, rec := range records {
		want := fmt.Sprintf("id-%d", i)
		if rec.ID != want {
			t.Errorf("record %d: expected %s, got %s", i, want, rec.ID)
		}
	}
}

func TestMetadataStore_RecordRoundTrip(t *testing.T) {
	store := NewMetadataStore(filepath.Join(t.TempDir(), "uploads.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	in := UploadRecord{
		ID:              "doc-1",
		Filename:        "doc-1_report.pdf",
		OriginalName:    "report.pdf",
		Size:            2048,
		MimeType:        "application/pdf",
		UploadDate:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		WebhookURL:      "https://example.com/hook",
		WebhookSent:     true,
		WebhookResponse: "Webhook sent successfully. Status: 200",
		Status:          StatusCompleted,
	}
	if err := store.Append(in); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0] != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", records[0], in)
	}
}

func TestMetadataStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store := NewMetadataStore(path)

	_, err := store.List()
	if !errors.Is(err, ErrCorruptStore) {
		t.Errorf("expected ErrCorruptStore, got %v", err)
	}

	// Appends must not clobber a corrupt document either.
	err = store.Append(UploadRecord{ID: "x"})
	if !errors.Is(err, ErrCorruptStore) {
		t.Errorf("expected ErrCorruptStore on append, got %v", err)
	}
}

func TestMetadataStore_ConcurrentAppends(t *testing.T) {
	store := NewMetadataStore(filepath.Join(t.TempDir(), "uploads.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := UploadRecord{ID: fmt.Sprintf("id-%d", i), Status: StatusCompleted}
			if err := store.Append(rec); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != n {
		t.Errorf("expected %d records after concurrent appends, got %d", n, len(records))
	}
}
