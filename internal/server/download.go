package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// downloadHandler handles GET /download/{filename}. The path segment is
// the stored blob key and arrives straight from the client, so it is
// re-validated against path traversal before it touches the blob store.
// The suggested display filename is the key with its id prefix stripped.
func (s *Server) downloadHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, errKindMethod, "method not allowed")
			return
		}

		// r.URL.Path arrives already percent-decoded, so the trimmed
		// segment is the literal stored key. Decoding it a second time
		// would mangle keys that contain a '%'.
		key := strings.TrimPrefix(r.URL.Path, "/download/")
		if key == "" {
			writeError(w, http.StatusBadRequest, errKindValidation, "filename is required")
			return
		}
		if !validBlobKey(key) {
			writeError(w, http.StatusBadRequest, errKindValidation, "invalid filename")
			return
		}

		data, err := s.blobs.Get(key)
		if err != nil {
			GetMetrics().RecordDownloadError()
			writeStorageError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentTypeForKey(key))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))

		// Encourage safe download behavior in browsers.
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, displayName(key)))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)

		Debug("serving download", map[string]interface{}{
			"rid":   RequestIDFromContext(r.Context()),
			"key":   key,
			"bytes": len(data),
		})
		GetMetrics().RecordDownload(int64(len(data)))
	})
}
