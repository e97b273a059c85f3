package server

import (
	"net/http"
	"sort"
)

// historyResp wraps the full upload history.
type historyResp struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Uploads []UploadRecord `json:"uploads"`
}

// historyHandler handles GET /history. The entire history is public:
// the system carries no authentication layer, which is a documented
// limitation rather than a feature. Records are returned newest-first.
func (s *Server) historyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, errKindMethod, "method not allowed")
			return
		}

		records, err := s.store.List()
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			Error("history read failed", map[string]interface{}{"rid": rid}, err)
			writeStorageError(w, err)
			return
		}

		sort.SliceStable(records, func(i, j int) bool {
			return records[i].UploadDate.After(records[j].UploadDate)
		})

		GetMetrics().RecordHistoryRead()

		writeJSON(w, http.StatusOK, historyResp{
			Success: true,
			Count:   len(records),
			Uploads: records,
		})
	})
}
