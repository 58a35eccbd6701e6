// Package seeders provides a registry of database seed functions.
//
// Usage (define a seeder in any file in this package):
//
//	func init() {
//	    seeders.Register("catalog", SeedCatalog)
//	}
//
// Then run via CLI: printipid seed
package seeders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/printipid/printipid/pkg/docstore"
)

// SeederFunc is the signature for a seed function. Seeders must be
// idempotent: running them twice must not duplicate documents.
type SeederFunc func(ctx context.Context, db *mongo.Database) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
// Call this from init() in your seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order.
// It stops on the first error.
func RunAll() error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, e := range current {
		fmt.Printf("  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, docstore.DB); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Println("done")
	}
	return nil
}
