// validation.go - Input validation and sanitization helpers
package server

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename removes potentially dangerous characters from filenames
// before the name becomes part of a blob key.
func SanitizeFilename(filename string) string {
	// Remove path separators
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	// Remove null bytes
	filename = strings.ReplaceAll(filename, "\x00", "")

	// Trim spaces and dots from start/end
	filename = strings.Trim(filename, " .")

	// Limit length
	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		nameWithoutExt := filename[:len(filename)-len(ext)]
		filename = nameWithoutExt[:255-len(ext)] + ext
	}

	if filename == "" {
		filename = "unnamed"
	}

	return filename
}

// mimeByExtension maps file extensions to download content types.
// Unknown extensions fall back to a generic binary type; the table is
// deliberately static so download responses never depend on what the
// uploader claimed.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".html": "text/html",
	".json": "application/json",
	".xml":  "application/xml",
	".zip":  "application/zip",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// contentTypeForKey infers the download content type from the stored
// key's extension.
func contentTypeForKey(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if ct, ok := mimeByExtension[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// displayName reconstructs the original filename from a stored key by
// stripping the generated id prefix ("{uuid}_"). Keys without a prefix
// are returned unchanged.
func displayName(key string) string {
	if i := strings.Index(key, "_"); i >= 0 && i+1 < len(key) {
		return key[i+1:]
	}
	return key
}
