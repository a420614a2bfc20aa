package application

import (
	"sync"

	"github.com/relhist/relhist/internal/domain/port/driven"
)

// SourceProvider enables runtime hot-swap of the release source. It holds a
// mutex-protected reference to the current driven.ReleaseSource, allowing a
// token entered through the API to take effect without restarting the
// application.
type SourceProvider struct {
	mu     sync.RWMutex
	source driven.ReleaseSource
}

// NewSourceProvider creates a new provider with the given initial source.
// source may be nil if no token is available at startup.
func NewSourceProvider(source driven.ReleaseSource) *SourceProvider {
	return &SourceProvider{source: source}
}

// Get returns the current release source. Callers should check for nil if the
// provider was created without an initial token.
func (p *SourceProvider) Get() driven.ReleaseSource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source
}

// Replace swaps the current source with a new one. The next caller of Get()
// will receive the new value.
func (p *SourceProvider) Replace(source driven.ReleaseSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = source
}

// HasSource returns true if a non-nil source is currently held.
func (p *SourceProvider) HasSource() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source != nil
}
