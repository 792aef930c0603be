package feeds

import (
	"context"
	"fmt"

	"newslens/internal/dto"
)

// Parser fetches a feed URL and returns its raw entries.
type Parser interface {
	FetchFeed(ctx context.Context, url string) ([]dto.RawEntry, error)
}

// Registry maps parser names from configuration to implementations, so new
// feed formats plug in without touching the collector.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser under the given name, replacing any previous one.
func (r *Registry) Register(name string, p Parser) {
	r.parsers[name] = p
}

// Get resolves a parser by name.
func (r *Registry) Get(name string) (Parser, error) {
	p, ok := r.parsers[name]
	if !ok {
		return nil, fmt.Errorf("no feed parser registered for %q", name)
	}
	return p, nil
}
