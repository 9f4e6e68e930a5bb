package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/pkg/logger"
)

// RuleSource loads the dictionary from storage.
type RuleSource interface {
	FetchActiveCategories(ctx context.Context) ([]model.Category, error)
	FetchActiveKeywordRules(ctx context.Context, region string) ([]model.KeywordRule, error)
}

// VersionSource shares the dictionary version between instances.
type VersionSource interface {
	Version(ctx context.Context) (int64, error)
	Bump(ctx context.Context) (int64, error)
}

type Options struct {
	FallbackCategory string
	TTL              time.Duration // 0 keeps entries until invalidated
	Versions         VersionSource // optional
}

type ruleEntry struct {
	rules    *discovery.RuleSet
	loadedAt time.Time
}

// KeywordCache is a read-through cache of compiled rule sets keyed by region.
type KeywordCache struct {
	source   RuleSource
	versions VersionSource
	fallback string
	ttl      time.Duration
	now      func() time.Time

	mu         sync.Mutex
	entries    map[string]ruleEntry
	version    int64
	generation uint64 // bumped whenever entries are dropped
}

func NewKeywordCache(source RuleSource, opts Options) *KeywordCache {
	return &KeywordCache{
		source:   source,
		versions: opts.Versions,
		fallback: opts.FallbackCategory,
		ttl:      opts.TTL,
		now:      time.Now,
		entries:  make(map[string]ruleEntry),
	}
}

// RuleSet returns the compiled rules for region ("" = every region), loading them on a miss.
func (c *KeywordCache) RuleSet(ctx context.Context, region string) (*discovery.RuleSet, error) {
	region = strings.ToLower(strings.TrimSpace(region))
	c.syncVersion(ctx)

	c.mu.Lock()
	entry, ok := c.entries[region]
	generation := c.generation
	c.mu.Unlock()
	if ok && !c.expired(entry) {
		return entry.rules, nil
	}

	categories, err := c.source.FetchActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := c.source.FetchActiveKeywordRules(ctx, region)
	if err != nil {
		return nil, err
	}

	rs := discovery.NewRuleSet(categories, rules, c.fallback)
	// 로딩 중에 무효화되었으면 결과를 캐시하지 않는다
	c.mu.Lock()
	if c.generation == generation {
		c.entries[region] = ruleEntry{rules: rs, loadedAt: c.now()}
	}
	c.mu.Unlock()

	logger.Debug("Keyword rules cached", map[string]interface{}{
		"region":     region,
		"rules":      rs.Len(),
		"categories": len(categories),
	})
	return rs, nil
}

// Categories returns the active categories of the cached dictionary.
func (c *KeywordCache) Categories(ctx context.Context) ([]model.Category, error) {
	rs, err := c.RuleSet(ctx, "")
	if err != nil {
		return nil, err
	}
	return rs.Categories(), nil
}

// CanonicalCategory maps a user supplied name, local name or alias to the category name.
// Unknown names are returned trimmed and unchanged.
func (c *KeywordCache) CanonicalCategory(ctx context.Context, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	categories, err := c.Categories(ctx)
	if err != nil {
		logger.Warn("Category lookup skipped", map[string]interface{}{
			"category": name,
			"error":    err.Error(),
		})
		return name
	}
	for i := range categories {
		if categories[i].Matches(name) {
			return categories[i].Name
		}
	}
	return name
}

// Invalidate drops every cached rule set and tells other instances to do the same.
func (c *KeywordCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]ruleEntry)
	c.generation++
	c.mu.Unlock()

	if c.versions == nil {
		return
	}
	version, err := c.versions.Bump(ctx)
	if err != nil {
		logger.Warn("Failed to publish keyword cache invalidation", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	c.mu.Lock()
	c.version = version
	c.mu.Unlock()
}

func (c *KeywordCache) expired(entry ruleEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.loadedAt) >= c.ttl
}

// syncVersion clears local entries when another instance changed the dictionary.
func (c *KeywordCache) syncVersion(ctx context.Context) {
	if c.versions == nil {
		return
	}
	version, err := c.versions.Version(ctx)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.version {
		c.entries = make(map[string]ruleEntry)
		c.generation++
		c.version = version
	}
}
