package tenant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// Default cache lifetimes.
const (
	DefaultTTL         = 5 * time.Minute
	DefaultNegativeTTL = 30 * time.Second
)

// Observer receives cache outcomes. kind is "slug", "domain" or "id".
type Observer interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

type nopObserver struct{}

func (nopObserver) CacheHit(string)  {}
func (nopObserver) CacheMiss(string) {}

// CacheConfig configures a CachedResolver.
type CacheConfig struct {
	// TTL is how long a found tenant is served from cache. Zero means DefaultTTL.
	TTL time.Duration

	// NegativeTTL is how long an unknown slug or domain is remembered.
	// Zero means DefaultNegativeTTL; negative disables negative caching.
	NegativeTTL time.Duration

	// Observer is notified of hits and misses. May be nil.
	Observer Observer
}

// CachedResolver fronts a Resolver with a Cache. Found tenants are stored
// under their slug, domain and id, so invalidating one tenant clears every
// key that could serve it.
//
// A lookup that was in flight while an invalidation ran does not fill the
// cache with what it fetched.
type CachedResolver struct {
	next        Resolver
	cache       *Cache
	ttl         time.Duration
	negativeTTL time.Duration
	observer    Observer

	mu         sync.Mutex
	generation uint64
}

var _ Resolver = (*CachedResolver)(nil)

func NewCachedResolver(next Resolver, cfg CacheConfig) *CachedResolver {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.NegativeTTL == 0 {
		cfg.NegativeTTL = DefaultNegativeTTL
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &CachedResolver{
		next:        next,
		cache:       NewCache(),
		ttl:         cfg.TTL,
		negativeTTL: cfg.NegativeTTL,
		observer:    cfg.Observer,
	}
}

func slugKey(slug string) string { return "slug:" + strings.ToLower(strings.TrimSpace(slug)) }
func domainKey(d string) string { return "domain:" + strings.ToLower(strings.TrimSpace(d)) }
func idKey(id uuid.UUID) string { return "id:" + id.String() }

func (r *CachedResolver) BySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return r.lookup(ctx, "slug", slugKey(slug), func() (*domain.Tenant, error) {
		return r.next.BySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	})
}

func (r *CachedResolver) ByDomain(ctx context.Context, d string) (*domain.Tenant, error) {
	return r.lookup(ctx, "domain", domainKey(d), func() (*domain.Tenant, error) {
		return r.next.ByDomain(ctx, strings.ToLower(strings.TrimSpace(d)))
	})
}

func (r *CachedResolver) ByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return r.lookup(ctx, "id", idKey(id), func() (*domain.Tenant, error) {
		return r.next.ByID(ctx, id)
	})
}

func (r *CachedResolver) lookup(ctx context.Context, kind, key string, fetch func() (*domain.Tenant, error)) (*domain.Tenant, error) {
	if t, ok := r.cache.Get(key); ok {
		r.observer.CacheHit(kind)
		if t == nil {
			return nil, ErrTenantNotFound
		}
		return clone(t), nil
	}
	r.observer.CacheMiss(kind)

	gen := r.currentGeneration()
	t, err := fetch()
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			r.storeMissing(gen, key)
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	r.store(gen, t, key)
	return clone(t), nil
}

func (r *CachedResolver) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// store caches t unless an invalidation ran since gen was read.
func (r *CachedResolver) store(gen uint64, t *domain.Tenant, extra string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		return
	}
	for _, k := range keysFor(t) {
		r.cache.Set(k, t, r.ttl)
	}
	r.cache.Set(extra, t, r.ttl)
}

func (r *CachedResolver) storeMissing(gen uint64, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.generation {
		r.cache.Set(key, nil, r.negativeTTL)
	}
}

// invalidating bumps the generation and holds the lock until fn returns, so
// no lookup started earlier can store in between.
func (r *CachedResolver) invalidating(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	fn()
}

// Invalidate drops the entries for slug, including the id and domain keys
// of the tenant cached under it.
func (r *CachedResolver) Invalidate(slug string) {
	r.invalidating(func() { r.invalidateSlug(slug) })
}

func (r *CachedResolver) invalidateSlug(slug string) {
	key := slugKey(slug)
	if t, ok := r.cache.Get(key); ok && t != nil {
		r.cache.Delete(keysFor(t)...)
	}
	r.cache.Delete(key)
}

// InvalidateTenant drops every key t could be served from.
func (r *CachedResolver) InvalidateTenant(t *domain.Tenant) {
	if t == nil {
		return
	}
	r.invalidating(func() { r.invalidateTenant(t) })
}

func (r *CachedResolver) invalidateTenant(t *domain.Tenant) {
	if cached, ok := r.cache.Get(idKey(t.ID)); ok && cached != nil {
		r.cache.Delete(keysFor(cached)...)
	}
	r.cache.Delete(keysFor(t)...)
}

// Apply invalidates the tenant named by a change event.
func (r *CachedResolver) Apply(ch Change) {
	t := &domain.Tenant{ID: ch.ID, Slug: ch.Slug}
	if ch.Domain != "" {
		t.Domain = &ch.Domain
	}
	r.invalidating(func() {
		r.invalidateTenant(t)
		if ch.Slug != "" {
			r.invalidateSlug(ch.Slug)
		}
		if ch.PreviousDomain != "" {
			r.cache.Delete(domainKey(ch.PreviousDomain))
		}
	})
}

// Purge drops the whole cache.
func (r *CachedResolver) Purge() {
	r.invalidating(r.cache.Purge)
}

func keysFor(t *domain.Tenant) []string {
	keys := make([]string, 0, 3)
	if t.Slug != "" {
		keys = append(keys, slugKey(t.Slug))
	}
	if t.ID != uuid.Nil {
		keys = append(keys, idKey(t.ID))
	}
	if t.Domain != nil && *t.Domain != "" {
		keys = append(keys, domainKey(*t.Domain))
	}
	return keys
}

// clone keeps callers from mutating the cached copy. Settings are shared.
func clone(t *domain.Tenant) *domain.Tenant {
	cp := *t
	return &cp
}
