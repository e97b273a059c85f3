package server

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"path separators", "a/b\\c.txt", "a_b_c.txt"},
		{"null bytes", "evil\x00.txt", "evil.txt"},
		{"leading dots", "..hidden", "hidden"},
		{"trailing spaces", " padded.txt ", "padded.txt"},
		{"empty", "", "unnamed"},
		{"only dots", "...", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_LongNames(t *testing.T) {
	long := strings.Repeat("a", 300) + ".txt"
	got := SanitizeFilename(long)
	if len(got) > 255 {
		t.Errorf("expected at most 255 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, ".txt") {
		t.Errorf("expected extension to survive truncation, got %q", got)
	}
}

func TestContentTypeForKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"id_report.pdf", "application/pdf"},
		{"id_photo.JPG", "image/jpeg"},
		{"id_photo.jpeg", "image/jpeg"},
		{"id_image.png", "image/png"},
		{"id_notes.txt", "text/plain"},
		{"id_doc.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"id_blob.xyz", "application/octet-stream"},
		{"id_noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := contentTypeForKey(tt.key); got != tt.want {
			t.Errorf("contentTypeForKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"550e8400-e29b-41d4-a716-446655440000_report.pdf", "report.pdf"},
		{"id_my_file.txt", "my_file.txt"},
		{"noprefix.txt", "noprefix.txt"},
		{"trailing_", "trailing_"},
	}

	for _, tt := range tests {
		if got := displayName(tt.key); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
