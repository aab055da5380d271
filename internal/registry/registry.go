// Package registry implements name→builder and catalog→builder maps that
// return a coordinator client instance on demand.
//
// Both registries are explicitly constructed rather than process-wide
// singletons: tests build an isolated instance instead of clearing
// shared global state between runs.
package registry

import (
	"context"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kalyankadiyala/commitcoord/pkg/metrics"
)

// Client is whatever a builder produces: a coordinator-like client the
// caller can commit through. It is narrowed to the one contract the
// registry itself needs — deciding whether two clients are "the same"
// coordinator, so callers can avoid reconnecting when table config
// changes reference an equivalent target.
type Client interface {
	// Equivalent reports whether other refers to the same underlying
	// coordinator implementation as this client.
	Equivalent(other Client) bool
}

// Equivalent reports whether two (possibly absent) clients are
// semantically equal: both nil, or both present and mutually equivalent.
func Equivalent(a, b Client) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equivalent(b)
}

// Builder is a pure factory consulted on every name-keyed lookup. It may
// return a fresh client or a cached one; the registry does not assume
// either.
type Builder interface {
	Build(ctx context.Context, conf map[string]string) (Client, error)
}

// BuilderFunc adapts a plain function to a Builder, the way
// http.HandlerFunc adapts a function to http.Handler: most registered
// builders are stateless closures and have no business implementing a
// named type just to satisfy the interface.
type BuilderFunc func(ctx context.Context, conf map[string]string) (Client, error)

// Build implements Builder.
func (f BuilderFunc) Build(ctx context.Context, conf map[string]string) (Client, error) {
	return f(ctx, conf)
}

// CatalogBuilder is a pure factory consulted on every catalog-keyed
// lookup, additionally parameterized by the catalog name the client
// should be built for.
type CatalogBuilder interface {
	Build(ctx context.Context, catalogName string) (Client, error)
}

// CatalogBuilderFunc adapts a plain function to a CatalogBuilder.
type CatalogBuilderFunc func(ctx context.Context, catalogName string) (Client, error)

// Build implements CatalogBuilder.
func (f CatalogBuilderFunc) Build(ctx context.Context, catalogName string) (Client, error) {
	return f(ctx, catalogName)
}

// NameRegistry is a mutex-serialized name → Builder map.
type NameRegistry struct {
	mu       sync.Mutex
	builders map[string]Builder
	metrics  *metrics.CoordinatorMetrics
}

// NewNameRegistry constructs a registry pre-loaded with seed, a map of
// builder names installed at construction time.
func NewNameRegistry(seed map[string]Builder, m *metrics.CoordinatorMetrics) *NameRegistry {
	builders := make(map[string]Builder, len(seed))
	for name, b := range seed {
		builders[name] = b
	}
	return &NameRegistry{builders: builders, metrics: m}
}

// Register adds a new builder under name. Registering the same name
// twice fails with AlreadyRegisteredError.
func (r *NameRegistry) Register(name string, b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[name]; exists {
		return &AlreadyRegisteredError{Name: name}
	}
	r.builders[name] = b
	return nil
}

// Get looks up name and invokes its builder with conf. Unknown names
// fail with UnknownCoordinatorError.
func (r *NameRegistry) Get(ctx context.Context, name string, conf map[string]string) (Client, error) {
	client, found, err := r.GetOpt(ctx, name, conf)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &UnknownCoordinatorError{Name: name}
	}
	return client, nil
}

// GetOpt is Get's absence-tolerant variant: found is false instead of an
// UnknownCoordinatorError when name has no registered builder.
func (r *NameRegistry) GetOpt(ctx context.Context, name string, conf map[string]string) (client Client, found bool, err error) {
	r.mu.Lock()
	b, ok := r.builders[name]
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RecordRegistryLookup("name", ok)
	}

	if !ok {
		return nil, false, nil
	}
	client, err = b.Build(ctx, conf)
	if err != nil {
		return nil, true, err
	}
	return client, true, nil
}

// RegisteredNames returns all registered builder names, sorted.
func (r *NameRegistry) RegisteredNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CatalogRegistry is a mutex-serialized name → CatalogBuilder map, with an
// LRU cache of constructed clients keyed by (name, catalog_name) so a
// process does not keep unbounded catalog clients warm. Grounded on the
// teacher's internal/notification/template/cache.go LRU usage.
type CatalogRegistry struct {
	mu       sync.Mutex
	builders map[string]CatalogBuilder
	cache    *lru.Cache[string, Client]
	metrics  *metrics.CoordinatorMetrics
}

// NewCatalogRegistry constructs a catalog registry pre-loaded with seed.
// cacheSize bounds the number of live catalog clients kept warm; 0
// disables caching (every Get rebuilds).
func NewCatalogRegistry(seed map[string]CatalogBuilder, cacheSize int, m *metrics.CoordinatorMetrics) *CatalogRegistry {
	builders := make(map[string]CatalogBuilder, len(seed))
	for name, b := range seed {
		builders[name] = b
	}

	var cache *lru.Cache[string, Client]
	if cacheSize > 0 {
		cache, _ = lru.New[string, Client](cacheSize)
	}

	return &CatalogRegistry{builders: builders, cache: cache, metrics: m}
}

// Register adds a new catalog builder under name.
func (r *CatalogRegistry) Register(name string, b CatalogBuilder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[name]; exists {
		return &AlreadyRegisteredError{Name: name}
	}
	r.builders[name] = b
	return nil
}

// Get looks up name and invokes its builder for catalogName, serving a
// cached client when one is warm.
func (r *CatalogRegistry) Get(ctx context.Context, name, catalogName string) (Client, error) {
	client, found, err := r.GetOpt(ctx, name, catalogName)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &UnknownCoordinatorError{Name: name}
	}
	return client, nil
}

// GetOpt is Get's absence-tolerant variant.
func (r *CatalogRegistry) GetOpt(ctx context.Context, name, catalogName string) (client Client, found bool, err error) {
	r.mu.Lock()
	b, ok := r.builders[name]
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RecordRegistryLookup("catalog", ok)
	}
	if !ok {
		return nil, false, nil
	}

	cacheKey := name + "/" + catalogName
	if r.cache != nil {
		if cached, hit := r.cache.Get(cacheKey); hit {
			return cached, true, nil
		}
	}

	client, err = b.Build(ctx, catalogName)
	if err != nil {
		return nil, true, err
	}
	if r.cache != nil {
		r.cache.Add(cacheKey, client)
	}
	return client, true, nil
}

// RegisteredNames returns all registered catalog builder names, sorted.
func (r *CatalogRegistry) RegisteredNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
