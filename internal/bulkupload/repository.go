package bulkupload

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharath018/realestate-backend/internal/auth"
	"github.com/sharath018/realestate-backend/internal/developer"
	"github.com/sharath018/realestate-backend/internal/location"
	"gorm.io/gorm"
)

// RefKind is an entity a record can point at.
type RefKind string

const (
	RefUser        RefKind = "user"
	RefDeveloper   RefKind = "developer"
	RefGovernorate RefKind = "governorate"
	RefCity        RefKind = "city"
	RefArea        RefKind = "area"
)

type refTable struct {
	table string
	scope string // parent column, empty for roots
}

var refTables = map[RefKind]refTable{
	RefUser:        {table: "users"},
	RefDeveloper:   {table: "developers"},
	RefGovernorate: {table: "governorates"},
	RefCity:        {table: "cities", scope: "governorate_id"},
	RefArea:        {table: "areas", scope: "city_id"},
}

// NamedRef is a lookup candidate.
type NamedRef struct {
	ID   string
	Name string
}

// Match is one case-insensitive column equality used for duplicate checks.
type Match struct {
	Column string
	Value  string
}

// Store is the persistence surface the importer needs.
type Store interface {
	FindRefByID(ctx context.Context, kind RefKind, id string) (string, error)
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
	FindRefByExactName(ctx context.Context, kind RefKind, name, scope string) (string, error)
	FindRefCandidates(ctx context.Context, kind RefKind, token, scope string, limit int) ([]NamedRef, error)
	CreateRef(ctx context.Context, kind RefKind, name, scope string) (string, error)
	Exists(ctx context.Context, model interface{}, matches ...Match) (bool, error)
	InsertBatch(ctx context.Context, records interface{}, batchSize int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Store {
	return &repository{db: db}
}

func (r *repository) FindRefByID(ctx context.Context, kind RefKind, id string) (string, error) {
	t, ok := refTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown reference kind %q", kind)
	}
	var row NamedRef
	err := r.db.WithContext(ctx).Table(t.table).Select("id").Where("id = ?", id).Limit(1).Scan(&row).Error
	return row.ID, err
}

func (r *repository) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var row NamedRef
	err := r.db.WithContext(ctx).Model(&auth.User{}).Select("id").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Limit(1).Scan(&row).Error
	return row.ID, err
}

func (r *repository) scoped(ctx context.Context, t refTable, scope string) *gorm.DB {
	q := r.db.WithContext(ctx).Table(t.table)
	if t.scope != "" && scope != "" {
		q = q.Where(t.scope+" = ?", scope)
	}
	return q
}

func (r *repository) FindRefByExactName(ctx context.Context, kind RefKind, name, scope string) (string, error) {
	t, ok := refTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown reference kind %q", kind)
	}
	var row NamedRef
	err := r.scoped(ctx, t, scope).Select("id, name").
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("created_at ASC").Limit(1).Scan(&row).Error
	return row.ID, err
}

func (r *repository) FindRefCandidates(ctx context.Context, kind RefKind, token, scope string, limit int) ([]NamedRef, error) {
	t, ok := refTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	var rows []NamedRef
	err := r.scoped(ctx, t, scope).Select("id, name").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(token)+"%").
		Order("created_at ASC").Limit(limit).Scan(&rows).Error
	return rows, err
}

// CreateRef inserts a minimal entity for an unresolved name.
func (r *repository) CreateRef(ctx context.Context, kind RefKind, name, scope string) (string, error) {
	name = strings.TrimSpace(name)
	description := fmt.Sprintf("%s (auto-created %s during bulk upload)", name, kind)
	db := r.db.WithContext(ctx)

	switch kind {
	case RefDeveloper:
		d := &developer.Developer{Name: name, Description: description}
		if err := db.Create(d).Error; err != nil {
			return "", err
		}
		return d.ID, nil
	case RefGovernorate:
		g := &location.Governorate{Name: name, Description: description}
		if err := db.Create(g).Error; err != nil {
			return "", err
		}
		return g.ID, nil
	case RefCity:
		c := &location.City{Name: name, Description: description}
		if scope != "" {
			c.GovernorateID = &scope
		}
		if err := db.Create(c).Error; err != nil {
			return "", err
		}
		return c.ID, nil
	case RefArea:
		if scope == "" {
			return "", fmt.Errorf("area %q needs a city", name)
		}
		a := &location.Area{Name: name, CityID: scope, Description: description}
		if err := db.Create(a).Error; err != nil {
			return "", err
		}
		return a.ID, nil
	default:
		return "", fmt.Errorf("%s references cannot be created", kind)
	}
}

// Exists reports whether a stored row matches every column case-insensitively.
func (r *repository) Exists(ctx context.Context, model interface{}, matches ...Match) (bool, error) {
	q := r.db.WithContext(ctx).Model(model)
	for _, m := range matches {
		q = q.Where("LOWER("+m.Column+") = ?", strings.ToLower(strings.TrimSpace(m.Value)))
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertBatch writes records in one transaction.
func (r *repository) InsertBatch(ctx context.Context, records interface{}, batchSize int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, batchSize).Error
	})
}
