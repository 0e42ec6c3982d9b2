package location

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// reservedSlugsKey holds the slugs handed out within one insert statement.
const reservedSlugsKey = "location:reserved_slugs"

// Slugify transliterates s to ASCII and joins its words with '-'.
func Slugify(s string) string {
	return slug.Make(strings.TrimSpace(s))
}

// slugScope narrows slug uniqueness to one parent column. A nil value matches
// rows without a parent.
type slugScope struct {
	column string
	value  *string
}

// AssignSlug sets *dst to a slug that no stored row of table in the same scope
// uses and that no sibling row of the same insert has taken. An explicit *dst
// is kept as the base; otherwise the base comes from name, or from fallback
// when name has no ASCII rendering. Collisions get a suffix from id.
func AssignSlug(tx *gorm.DB, table string, dst *string, name, id, fallback string) error {
	return assignSlug(tx, table, dst, name, id, fallback, nil)
}

func assignSlug(tx *gorm.DB, table string, dst *string, name, id, fallback string, scope *slugScope) error {
	base := Slugify(*dst)
	if base == "" {
		base = Slugify(name)
	}
	suffixed := base == ""
	if suffixed {
		base = fallback
	}

	full := strings.ReplaceAll(id, "-", "")
	short := full
	if len(short) > 8 {
		short = short[:8]
	}
	candidates := []string{base + "-" + short, base + "-" + short + "-2", base + "-" + full}
	if !suffixed {
		candidates = append([]string{base}, candidates...)
	}

	scopeKey := ""
	if scope != nil && scope.value != nil {
		scopeKey = *scope.value
	}
	for _, candidate := range candidates {
		taken, err := slugTaken(tx, table, candidate, scope)
		if err != nil {
			return err
		}
		if !taken && reserveSlug(tx, table+"|"+scopeKey+"|"+candidate) {
			*dst = candidate
			return nil
		}
	}
	return fmt.Errorf("no free slug for %s %q", table, name)
}

func slugTaken(tx *gorm.DB, table, candidate string, scope *slugScope) (bool, error) {
	q := tx.Table(table).Where("slug = ?", candidate)
	if scope != nil {
		if scope.value == nil {
			q = q.Where(scope.column + " IS NULL")
		} else {
			q = q.Where(scope.column+" = ?", *scope.value)
		}
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s slug: %w", table, err)
	}
	return n > 0, nil
}

// reserveSlug records key on the running statement. gorm calls BeforeCreate
// for every element of a batch with the same statement, so rows of one
// multi-row insert see each other here before any of them is stored.
func reserveSlug(tx *gorm.DB, key string) bool {
	v, _ := tx.Statement.Settings.LoadOrStore(reservedSlugsKey, &sync.Map{})
	_, loaded := v.(*sync.Map).LoadOrStore(key, struct{}{})
	return !loaded
}
