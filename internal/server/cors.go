// cors.go - Permissive cross-origin headers for the browser client.
//
// The whole API is public (no auth layer), so every route answers with
// wildcard CORS headers and a 200 to OPTIONS pre-flight requests.
package server

import "net/http"

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
}

// corsMiddleware sets CORS headers on every response and short-circuits
// pre-flight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
