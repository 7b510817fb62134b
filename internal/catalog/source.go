// internal/catalog/source.go
package catalog

import (
	"context"
	"fmt"
)

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Load resolves the catalog from the configured source. store may be nil
// unless source is "postgres".
func Load(ctx context.Context, source, path string, store *Store) (*Catalog, error) {
	switch source {
	case "", SourceEmbedded:
		return Default()
	case SourceFile:
		if path == "" {
			return nil, fmt.Errorf("catalog source %q needs a path", source)
		}
		return LoadFile(path)
	case SourcePostgres:
		if store == nil {
			return nil, fmt.Errorf("catalog source %q needs a store", source)
		}
		return store.LoadActive(ctx)
	}
	return nil, fmt.Errorf("unknown catalog source %q", source)
}
