package ports

import (
	"context"
	"encoding/json"

	"insightseo/domain/core/valueobjects"
)

// GrammarChecker checks prose against an external grammar service.
// This is a port in hexagonal architecture - the application doesn't know which service answers.
type GrammarChecker interface {
	// Check returns the service's matches untouched so they can be relayed verbatim
	Check(ctx context.Context, text, language string) ([]json.RawMessage, error)

	// Healthy reports whether calls are currently being let through
	Healthy() bool
}

// TextExtractor turns formatted input into plain prose for analysis
type TextExtractor interface {
	// Extract returns the readable text of input; plain text is returned unchanged
	Extract(ctx context.Context, format valueobjects.ContentFormat, input string) (string, error)
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error
}
