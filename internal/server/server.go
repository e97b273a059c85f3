package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

// Config carries everything the server needs at construction time.
type Config struct {
	Addr           string // e.g. ":8080"
	Build          BuildInfo
	BaseURL        string // prefix for download URLs handed to clients and webhooks
	MaxUploadBytes int64  // 0 means the built-in 10 MiB default
}

// Server owns the HTTP listener and the storage/notifier collaborators.
type Server struct {
	httpServer *http.Server
	cfg        Config
	store      *MetadataStore
	blobs      BlobStore
	notifier   *WebhookNotifier
}

// New wires routes, middleware, and dependencies into a runnable server.
func New(cfg Config, store *MetadataStore, blobs BlobStore, notifier *WebhookNotifier) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		blobs:    blobs,
		notifier: notifier,
	}

	mux := http.NewServeMux()
	mux.Handle("/upload", s.uploadHandler())
	mux.Handle("/history", s.historyHandler())
	mux.Handle("/download/", s.downloadHandler())
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/live", s.HandleLive)
	mux.Handle("/metrics", NewPrometheusExporter().Handler())

	// Wrap middleware: requestID -> logging -> security -> cors -> mux
	var handler http.Handler = mux
	handler = corsMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the fully wired handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
