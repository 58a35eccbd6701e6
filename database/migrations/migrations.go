// Package migrations contains all document-store migrations.
// Each migration file uses init() to call migration.Register().
// This package is imported by cmd/printipid/main.go to ensure all
// migrations are registered at CLI startup.
package migrations
