package location

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Governorate{}, &City{}, &Area{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"  Sheikh Zayed ": "sheikh-zayed",
		"New-Cairo":       "new-cairo",
		"6th of October":  "6th-of-october",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugsStayUniqueWithinOneInsert(t *testing.T) {
	db := newTestDB(t)
	govs := []*Governorate{{Name: "New Cairo"}, {Name: "New-Cairo"}, {Name: "الجيزة"}, {Name: "القاهرة"}}
	if err := db.CreateInBatches(govs, 100).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if govs[0].Slug != "new-cairo" {
		t.Fatalf("first slug = %q", govs[0].Slug)
	}
	seen := map[string]bool{}
	for _, g := range govs {
		if g.Slug == "" || seen[g.Slug] {
			t.Fatalf("slug %q for %q is empty or repeated", g.Slug, g.Name)
		}
		seen[g.Slug] = true
	}
}

func TestSlugAvoidsStoredRows(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&Governorate{Name: "Giza"}).Error; err != nil {
		t.Fatal(err)
	}
	g := &Governorate{Name: "Giza!"}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if g.Slug == "giza" || !strings.HasPrefix(g.Slug, "giza-") {
		t.Fatalf("slug = %q", g.Slug)
	}
}

func TestSlugIsScopedToParent(t *testing.T) {
	db := newTestDB(t)
	cairo := &Governorate{Name: "Cairo"}
	giza := &Governorate{Name: "Giza"}
	if err := db.Create([]*Governorate{cairo, giza}).Error; err != nil {
		t.Fatal(err)
	}
	a := &City{Name: "Nasr City", GovernorateID: &cairo.ID}
	b := &City{Name: "Nasr City", GovernorateID: &giza.ID}
	if err := db.Create(a).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatal(err)
	}
	if a.Slug != "nasr-city" || b.Slug != "nasr-city" {
		t.Fatalf("slugs = %q, %q", a.Slug, b.Slug)
	}
}
