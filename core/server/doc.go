// Package server holds configuration for the local preview HTTP server.
package server
