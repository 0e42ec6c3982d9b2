package bulkupload

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const candidateLimit = 50

// IDMatcher decides whether a reference is a stored ID rather than a name.
type IDMatcher func(value string) bool

// UUIDMatcher accepts only the canonical 36 character UUID form.
func UUIDMatcher(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// PatternMatcher builds an IDMatcher for backends with a different ID format.
func PatternMatcher(re *regexp.Regexp) IDMatcher {
	return func(value string) bool { return re.MatchString(value) }
}

// Cache holds the references resolved during one batch.
type Cache struct {
	mu  sync.RWMutex
	ids map[string]string
}

func NewCache() *Cache {
	return &Cache{ids: make(map[string]string)}
}

func cacheKey(kind RefKind, value, scope string) string {
	return string(kind) + "|" + scope + "|" + strings.ToLower(strings.TrimSpace(value))
}

func (c *Cache) get(kind RefKind, value, scope string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[cacheKey(kind, value, scope)]
	return id, ok
}

func (c *Cache) put(kind RefKind, value, scope, id string) {
	c.mu.Lock()
	c.ids[cacheKey(kind, value, scope)] = id
	c.mu.Unlock()
}

// Len returns the number of cached references.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

var spaceRun = regexp.MustCompile(`\s+`)

// normalizeName is the fuzzy comparison form: lowercase, single spaced,
// trailing "city" dropped.
func normalizeName(name string) string {
	n := spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
	if strings.HasSuffix(n, " city") {
		n = strings.TrimSpace(strings.TrimSuffix(n, " city"))
	}
	return n
}

// Resolver maps IDs, emails and names onto stored entity IDs.
type Resolver struct {
	store Store
	isID  IDMatcher
}

func NewResolver(store Store, isID IDMatcher) *Resolver {
	if isID == nil {
		isID = UUIDMatcher
	}
	return &Resolver{store: store, isID: isID}
}

// Resolve returns the entity ID for value, or "" when it cannot be found or
// created. scope is the parent ID for cities (governorate) and areas (city).
func (r *Resolver) Resolve(ctx context.Context, cache *Cache, kind RefKind, value, scope string, autoCreate bool) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if id, ok := cache.get(kind, value, scope); ok {
		return id
	}

	// ID-shaped values never fall through to a name search or a create.
	if r.isID(value) {
		id, err := r.store.FindRefByID(ctx, kind, value)
		if err != nil {
			log.Printf("⚠️ %s lookup by id %q failed: %v", kind, value, err)
			return ""
		}
		if id != "" {
			cache.put(kind, value, scope, id)
		}
		return id
	}

	if kind == RefUser {
		if !strings.Contains(value, "@") {
			return ""
		}
		id, err := r.store.FindUserIDByEmail(ctx, value)
		if err != nil {
			log.Printf("⚠️ user lookup by email %q failed: %v", value, err)
			return ""
		}
		if id != "" {
			cache.put(kind, value, scope, id)
		}
		return id
	}

	if kind == RefArea && scope == "" {
		return ""
	}

	id, err := r.findByName(ctx, kind, value, scope)
	if err != nil {
		log.Printf("⚠️ %s lookup %q failed: %v", kind, value, err)
		return ""
	}
	if id == "" && autoCreate {
		id = r.create(ctx, kind, value, scope)
	}
	if id != "" {
		cache.put(kind, value, scope, id)
	}
	return id
}

func (r *Resolver) findByName(ctx context.Context, kind RefKind, name, scope string) (string, error) {
	id, err := r.store.FindRefByExactName(ctx, kind, name, scope)
	if err != nil || id != "" {
		return id, err
	}

	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", nil
	}
	candidates, err := r.store.FindRefCandidates(ctx, kind, tokens[0], scope, candidateLimit)
	if err != nil {
		return "", err
	}
	want := normalizeName(name)
	for _, c := range candidates {
		if normalizeName(c.Name) == want {
			return c.ID, nil
		}
	}
	return "", nil
}

func (r *Resolver) create(ctx context.Context, kind RefKind, name, scope string) string {
	id, err := r.store.CreateRef(ctx, kind, name, scope)
	if err == nil {
		log.Printf("✅ Auto-created %s %q (%s)", kind, name, id)
		return id
	}

	// A concurrent import may have created the same row first.
	log.Printf("⚠️ Auto-create of %s %q failed, re-checking: %v", kind, name, err)
	id, lookupErr := r.findByName(ctx, kind, name, scope)
	if lookupErr != nil || id == "" {
		log.Printf("❌ Could not resolve or create %s %q", kind, name)
		return ""
	}
	return id
}
