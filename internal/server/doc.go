// Package server implements the HTTP server and HTTP handlers for
// Upload Relay. It wires together the HTTP routes, dependencies
// (metadata store, blob store, webhook notifier), and provides
// lifecycle helpers used by tests and the production binary.
package server
