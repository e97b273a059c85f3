package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"upload-relay/internal/server"
)

func main() {
	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	if v := server.ValidateStartupConfig(); v.HasErrors() {
		log.Printf("service=backend msg=%q\n%s", "invalid_configuration", v.ErrorString())
		os.Exit(1)
	}

	addr := getenvDefault("RELAY_ADDR", ":8080")
	dataDir := getenvDefault("RELAY_DATA_DIR", "data")
	baseURL := getenvDefault("RELAY_BASE_URL", "http://localhost:8080")

	build := server.BuildInfo{
		Version: getenvDefault("RELAY_VERSION", "dev"),
		Commit:  getenvDefault("RELAY_COMMIT", "unknown"),
	}

	var maxUpload int64
	if raw := os.Getenv("RELAY_MAX_UPLOAD_BYTES"); raw != "" {
		// Already validated above.
		maxUpload, _ = strconv.ParseInt(raw, 10, 64)
	}

	store := server.NewMetadataStore(filepath.Join(dataDir, "uploads.json"))
	if err := store.Init(); err != nil {
		log.Printf("service=backend msg=%q err=%v", "metadata_init_failed", err)
		os.Exit(1)
	}

	var blobs server.BlobStore
	if os.Getenv("RELAY_S3_ENDPOINT") != "" {
		s3, err := server.NewS3BlobStoreFromEnv()
		if err != nil {
			log.Printf("service=backend msg=%q err=%v", "s3_init_failed", err)
			os.Exit(1)
		}
		blobs = s3
		log.Printf("service=backend msg=%q", "using_s3_blob_store")
	} else {
		dir, err := server.NewDirBlobStore(filepath.Join(dataDir, "uploads"))
		if err != nil {
			log.Printf("service=backend msg=%q err=%v", "blob_init_failed", err)
			os.Exit(1)
		}
		blobs = dir
	}

	srv := server.New(server.Config{
		Addr:           addr,
		Build:          build,
		BaseURL:        baseURL,
		MaxUploadBytes: maxUpload,
	}, store, blobs, server.NewWebhookNotifier())

	// Start the HTTP server in a background goroutine.
	// This allows us to listen for OS signals while the server runs.
	errCh := make(chan error, 1)
	go func() {
		log.Printf("service=backend msg=%q addr=%s version=%s commit=%s",
			"starting", addr, build.Version, build.Commit)
		errCh <- srv.Start()
	}()

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (container stop).
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Block until either a shutdown signal is received or the server encounters an error.
	select {
	case sig := <-sigCh:
		log.Printf("service=backend msg=%q signal=%s", "shutting_down", sig.String())
		// Give the server 5 seconds to finish in-flight requests.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("service=backend msg=%q err=%v", "shutdown_error", err)
			os.Exit(1)
		}
		log.Printf("service=backend msg=%q", "shutdown_complete")
	case err := <-errCh:
		if err != nil {
			log.Printf("service=backend msg=%q err=%v", "server_error", err)
			os.Exit(1)
		}
	}
}

// getenvDefault reads an environment variable and returns a default value if not set.
func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
