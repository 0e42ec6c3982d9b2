package bulkupload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sharath018/realestate-backend/internal/auditlog"
	"github.com/sharath018/realestate-backend/internal/auth"
	"github.com/sharath018/realestate-backend/internal/developer"
	"github.com/sharath018/realestate-backend/internal/launch"
	"github.com/sharath018/realestate-backend/internal/lead"
	"github.com/sharath018/realestate-backend/internal/location"
	"github.com/sharath018/realestate-backend/internal/media"
	"github.com/sharath018/realestate-backend/internal/property"
	"golang.org/x/crypto/bcrypt"
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
	if err := db.AutoMigrate(
		&auth.User{},
		&developer.Developer{},
		&location.Governorate{}, &location.City{}, &location.Area{},
		&property.Property{},
		&lead.Lead{},
		&launch.Launch{},
		&auditlog.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// stubImages resolves every reference except those containing "missing".
type stubImages struct{}

func (stubImages) ResolveImageURL(_ context.Context, ref string) (string, error) {
	if strings.Contains(ref, "missing") {
		return "", media.ErrNotFound
	}
	if strings.HasPrefix(ref, "http") {
		return ref, nil
	}
	return "https://cdn.test/uploads/" + strings.TrimPrefix(ref, "/"), nil
}

func (s stubImages) ResolveImageObject(ctx context.Context, obj media.Object) (*media.Object, error) {
	url, err := s.ResolveImageURL(ctx, obj.URL)
	if err != nil {
		return nil, err
	}
	obj.URL = url
	return &obj, nil
}

// countingStore records InsertBatch calls.
type countingStore struct {
	Store
	mu      sync.Mutex
	inserts int
}

func (c *countingStore) InsertBatch(ctx context.Context, records interface{}, batchSize int) error {
	c.mu.Lock()
	c.inserts++
	c.mu.Unlock()
	return c.Store.InsertBatch(ctx, records, batchSize)
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	audit := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(NewRepository(db), stubImages{}, audit, nil)
}

var admin = Options{Actor: Actor{UserID: "", Role: auth.RoleAdmin, Hierarchy: 1}}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func checkAccounting(t *testing.T, s Summary) {
	t.Helper()
	if s.Imported+s.Skipped+s.Failed != s.Total {
		t.Fatalf("summary does not add up: %+v", s)
	}
}

func TestGovernorateDuplicateInBatchIsSkipped(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	body := `[{"name":"Giza","annualAppreciationRate":7.5},{"name":"giza"}]`
	res, err := svc.ImportBatch(context.Background(), KindGovernorates, []byte(body), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 1 || res.Summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
	if len(res.SkippedRecords) != 1 || res.SkippedRecords[0].Index != 1 ||
		!strings.Contains(res.SkippedRecords[0].Reason, "duplicate of record 0") {
		t.Fatalf("unexpected skipped records: %+v", res.SkippedRecords)
	}
	checkAccounting(t, res.Summary)

	var count int64
	db.Model(&location.Governorate{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 governorate, got %d", count)
	}
}

func TestCityAutoCreatesGovernorate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	opts := admin
	opts.AutoCreate = true
	body := `[{"name":"Sheikh Zayed","governorate":"Giza"}]`
	res, err := svc.ImportBatch(context.Background(), KindCities, []byte(body), opts)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 1 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}

	var gov location.Governorate
	if err := db.Where("name = ?", "Giza").First(&gov).Error; err != nil {
		t.Fatalf("governorate not created: %v", err)
	}
	var city location.City
	if err := db.Where("name = ?", "Sheikh Zayed").First(&city).Error; err != nil {
		t.Fatalf("city not created: %v", err)
	}
	if city.GovernorateID == nil || *city.GovernorateID != gov.ID {
		t.Fatalf("city not linked to governorate: %v", city.GovernorateID)
	}
}

func TestCityWithoutAutoCreateRejectsUnknownGovernorate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.ImportBatch(context.Background(), KindCities, []byte(`[{"name":"Sheikh Zayed","governorate":"Giza"}]`), admin)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var count int64
	db.Model(&location.Governorate{}).Count(&count)
	if count != 0 {
		t.Fatalf("governorate created without autoCreate")
	}
}

func TestPropertyMissingLocationRejectsBatch(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	body := `[
		{"title":"Villa","type":"VILLA","price":100,"location":{"address":"1 Road","city":"Cairo","state":"Cairo"}},
		{"title":"Flat","type":"APARTMENT","price":100}
	]`
	res, err := svc.ImportBatch(context.Background(), KindProperties, []byte(body), admin)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if res.Summary.Imported != 0 || len(res.Errors) != 1 || res.Errors[0].Index != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(strings.Join(res.Errors[0].Errors, ";"), "location is required") {
		t.Fatalf("unexpected errors: %v", res.Errors[0].Errors)
	}
	checkAccounting(t, res.Summary)

	var count int64
	db.Model(&property.Property{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected batch wrote %d properties", count)
	}
}

func TestPropertyDropsUnresolvableImage(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	body := `[{
		"title":"Villa","type":"villa","price":"1,500,000.456",
		"location":{"address":"1 Road","city":"Cairo","state":"Cairo"},
		"images":[{"url":"villa.jpg","caption":"Front"},{"url":"missing.jpg"}]
	}]`
	res, err := svc.ImportBatch(context.Background(), KindProperties, []byte(body), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 1 || len(res.ImageWarnings) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ImageWarnings[0].Reference != "missing.jpg" || res.ImageWarnings[0].Index != 0 {
		t.Fatalf("unexpected warning: %+v", res.ImageWarnings[0])
	}

	var p property.Property
	if err := db.First(&p).Error; err != nil {
		t.Fatal(err)
	}
	images := p.Images
	if len(images) != 1 || images[0].URL != "https://cdn.test/uploads/villa.jpg" || !images[0].IsHero {
		t.Fatalf("unexpected images: %+v", images)
	}
	if p.Type != property.TypeVilla || p.Price != 1500000.46 {
		t.Fatalf("unexpected type/price: %s %v", p.Type, p.Price)
	}
}

func TestPropertyBatchInsertsInChunks(t *testing.T) {
	db := newTestDB(t)
	store := &countingStore{Store: NewRepository(db)}
	svc := NewService(store, stubImages{}, nil, nil)

	records := make([]map[string]interface{}, 1000)
	for i := range records {
		records[i] = map[string]interface{}{
			"title": fmt.Sprintf("Unit %d", i),
			"type":  "APARTMENT",
			"price": 1000 + i,
			"location": map[string]interface{}{
				"address": fmt.Sprintf("%d Nile St", i), "city": "Cairo", "state": "Cairo",
			},
		}
	}
	res, err := svc.ImportBatch(context.Background(), KindProperties, mustJSON(t, records), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 1000 || len(res.Warnings) != 0 || len(res.ImageWarnings) != 0 {
		t.Fatalf("unexpected result: %+v", res.Summary)
	}
	if store.inserts != 20 {
		t.Fatalf("expected 20 chunk inserts, got %d", store.inserts)
	}
	var count int64
	db.Model(&property.Property{}).Count(&count)
	if count != 1000 {
		t.Fatalf("expected 1000 properties, got %d", count)
	}
}

func TestLeadInvalidEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	res, err := svc.ImportBatch(context.Background(), KindLeads, []byte(`[{"name":"Omar","email":"not-an-email","phone":"+201112223334"}]`), admin)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(res.Errors) != 1 || !contains(res.Errors[0].Errors, "Invalid email format") {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
}

func TestLeadCleansPhoneAndLinksAgent(t *testing.T) {
	db := newTestDB(t)
	agent := &auth.User{Name: "Agent", Email: "agent@example.com", PasswordHash: "x", Role: auth.RoleSalesAgent, IsActive: true}
	if err := db.Create(agent).Error; err != nil {
		t.Fatal(err)
	}
	svc := newTestService(t, db)

	body := `[{"name":"Omar","email":"Omar@Example.com","phone":"+20 (111) 222-3334","assignedTo":"AGENT@example.com","requiredService":"buy"}]`
	res, err := svc.ImportBatch(context.Background(), KindLeads, []byte(body), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 1 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
	var l lead.Lead
	db.First(&l)
	if l.Phone != "+201112223334" || l.Email != "omar@example.com" || l.Source != "bulk_upload" || l.Status != lead.StatusNew {
		t.Fatalf("unexpected lead: %+v", l)
	}
	if l.AssignedToID == nil || *l.AssignedToID != agent.ID {
		t.Fatalf("agent not linked: %v", l.AssignedToID)
	}

	// Same email and phone in any case is skipped.
	res, err = svc.ImportBatch(context.Background(), KindLeads, []byte(body), admin)
	if err != nil || res.Summary.Skipped != 1 || res.Summary.Imported != 0 {
		t.Fatalf("expected skip on re-import: %+v %v", res, err)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestPropertyReferencesResolveOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	body := `[
		{"title":"A","type":"VILLA","price":1,"governorate_ref":"Giza","city_ref":"Sheikh Zayed","area_ref":"Beverly Hills","developer":"Palm Hills","location":{"address":"1 Road"}},
		{"title":"B","type":"VILLA","price":1,"governorate_ref":"giza","city_ref":"Sheikh Zayed City","area_ref":"beverly hills","developer":"PALM HILLS","location":{"address":"2 Road"}}
	]`
	res, err := svc.ImportBatch(context.Background(), KindProperties, []byte(body), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 2 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}

	for model, want := range map[interface{}]int64{&location.Governorate{}: 1, &location.City{}: 1, &location.Area{}: 1, &developer.Developer{}: 1} {
		var n int64
		db.Model(model).Count(&n)
		if n != want {
			t.Fatalf("%T: expected %d rows, got %d", model, want, n)
		}
	}

	var props []property.Property
	db.Order("title").Find(&props)
	if len(props) != 2 || props[0].GovernorateID == nil || props[1].GovernorateID == nil ||
		*props[0].GovernorateID != *props[1].GovernorateID || *props[0].AreaID != *props[1].AreaID {
		t.Fatalf("references differ between records: %+v", props)
	}

	var area location.Area
	db.First(&area)
	if area.CityID != *props[0].CityID {
		t.Fatalf("area not created under the resolved city")
	}

	// A second batch reuses the stored rows.
	second := `[{"title":"C","type":"VILLA","price":1,"governorate_ref":"GIZA","location":{"address":"3 Road"}}]`
	if _, err := svc.ImportBatch(context.Background(), KindProperties, []byte(second), admin); err != nil {
		t.Fatalf("import: %v", err)
	}
	var n int64
	db.Model(&location.Governorate{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected governorate reuse, got %d rows", n)
	}
}

func TestPropertyApprovalFollowsActor(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	agent := Options{Actor: Actor{UserID: "agent-1", Role: auth.RoleSalesAgent, Hierarchy: auth.HierarchyForRole(auth.RoleSalesAgent)}}
	rec := `[{"title":"%s","type":"VILLA","status":"for-sale","price":1,"location":{"address":"1 Road","city":"Cairo","state":"Cairo"}}]`

	if _, err := svc.ImportBatch(ctx, KindProperties, []byte(fmt.Sprintf(rec, "Pending")), agent); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := svc.ImportBatch(ctx, KindProperties, []byte(fmt.Sprintf(rec, "Approved")), admin); err != nil {
		t.Fatalf("import: %v", err)
	}

	var pending, approved property.Property
	db.Where("title = ?", "Pending").First(&pending)
	db.Where("title = ?", "Approved").First(&approved)
	if pending.ApprovalStatus != property.ApprovalPending || approved.ApprovalStatus != property.ApprovalApproved {
		t.Fatalf("unexpected approval: %s / %s", pending.ApprovalStatus, approved.ApprovalStatus)
	}
	if pending.CreatedByID == nil || *pending.CreatedByID != "agent-1" {
		t.Fatalf("creator not recorded: %v", pending.CreatedByID)
	}
	if pending.Status != property.StatusForSale || pending.Currency != property.CurrencyEGP || pending.LocationCountry != property.DefaultCountry {
		t.Fatalf("defaults not applied: %+v", pending)
	}
}

func TestAllDuplicatesShortCircuit(t *testing.T) {
	db := newTestDB(t)
	store := &countingStore{Store: NewRepository(db)}
	svc := NewService(store, stubImages{}, nil, nil)
	ctx := context.Background()

	body := []byte(`[{"name":"Palm Hills"}]`)
	if _, err := svc.ImportBatch(ctx, KindDevelopers, body, admin); err != nil {
		t.Fatalf("import: %v", err)
	}
	res, err := svc.ImportBatch(ctx, KindDevelopers, []byte(`[{"name":"palm hills"},{"name":"PALM HILLS"}]`), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Skipped != 2 || res.Summary.Imported != 0 || res.Summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
	if store.inserts != 1 {
		t.Fatalf("expected no insert for an all-duplicate batch, got %d calls", store.inserts)
	}
}

func TestErrorsAndSkipsAreExclusive(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	body := `[{"name":"Giza"},{"name":"GIZA","annualAppreciationRate":300},{"name":""}]`
	res, err := svc.ImportBatch(context.Background(), KindGovernorates, []byte(body), admin)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	seen := make(map[int]bool)
	for _, s := range res.SkippedRecords {
		seen[s.Index] = true
	}
	for _, e := range res.Errors {
		if seen[e.Index] {
			t.Fatalf("record %d is both skipped and invalid", e.Index)
		}
	}
	checkAccounting(t, res.Summary)
}

func TestIntakeGuard(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	tooMany := make([]map[string]string, 1001)
	for i := range tooMany {
		tooMany[i] = map[string]string{"name": fmt.Sprintf("G%d", i)}
	}

	cases := map[string][]byte{
		"object": []byte(`{"name":"Giza"}`),
		"empty":  []byte(`[]`),
		"blank":  []byte(``),
		"large":  mustJSON(t, tooMany),
	}
	for name, body := range cases {
		if _, err := svc.ImportBatch(ctx, KindGovernorates, body, admin); !errors.Is(err, ErrInvalidBatch) {
			t.Fatalf("%s: expected ErrInvalidBatch, got %v", name, err)
		}
	}

	if _, err := svc.ImportBatch(ctx, Kind("villas"), []byte(`[{}]`), admin); !errors.Is(err, ErrUnsupportedEntity) {
		t.Fatalf("expected ErrUnsupportedEntity, got %v", err)
	}

	res, err := svc.ImportBatch(ctx, KindGovernorates, []byte(`[1, {"name":"Giza"}]`), admin)
	if err == nil || len(res.Errors) != 1 || res.Errors[0].Index != 0 {
		t.Fatalf("non-object record not rejected: %+v %v", res, err)
	}
}

func TestUserImport(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	body := `[
		{"name":"Mona","email":"Mona@Example.com","password":"secret123","role":"Sales Agent","isActive":"false","permissions":{"canBulkUpload":true}},
		{"name":"Ali","email":"ali@example.com"}
	]`
	res, err := svc.ImportBatch(context.Background(), KindUsers, []byte(body), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 2 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}

	var mona auth.User
	if err := db.Where("email = ?", "mona@example.com").First(&mona).Error; err != nil {
		t.Fatal(err)
	}
	if mona.Role != auth.RoleSalesAgent || mona.Hierarchy != auth.HierarchyForRole(auth.RoleSalesAgent) || mona.IsActive {
		t.Fatalf("unexpected user: %+v", mona)
	}
	if bcrypt.CompareHashAndPassword([]byte(mona.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("password not hashed")
	}
	perms := mona.Permissions.Data()
	if !perms.CanBulkUpload || !perms.CanManageLeads {
		t.Fatalf("permissions not merged: %+v", perms)
	}

	var ali auth.User
	db.Where("email = ?", "ali@example.com").First(&ali)
	if ali.Role != auth.RoleUser || !ali.IsActive || ali.PasswordHash == "" {
		t.Fatalf("defaults not applied: %+v", ali)
	}

	res, err = svc.ImportBatch(context.Background(), KindUsers, []byte(`[{"name":"Short","email":"short@example.com","password":"123"}]`), admin)
	if err == nil || len(res.Errors) != 1 {
		t.Fatalf("short password accepted: %+v", res)
	}
}

func TestLaunchLinksKnownDeveloper(t *testing.T) {
	db := newTestDB(t)
	dev := &developer.Developer{Name: "Palm Hills"}
	if err := db.Create(dev).Error; err != nil {
		t.Fatal(err)
	}
	svc := newTestService(t, db)

	body := `[
		{"title":"The Crest","developer":"palm hills","launchDate":"2026-03-01","gallery":"a.jpg, missing.jpg","status":"sold out"},
		{"title":"Unknown","developer":"Nobody Builders"}
	]`
	res, err := svc.ImportBatch(context.Background(), KindLaunches, []byte(body), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 2 || len(res.ImageWarnings) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	var crest, unknown launch.Launch
	db.Where("title = ?", "The Crest").First(&crest)
	db.Where("title = ?", "Unknown").First(&unknown)
	if crest.DeveloperID == nil || *crest.DeveloperID != dev.ID || crest.LaunchDate == nil {
		t.Fatalf("crest not linked: %+v", crest)
	}
	if crest.Status != launch.StatusSoldOut || len(crest.Gallery) != 1 {
		t.Fatalf("unexpected crest: %+v", crest)
	}
	if unknown.DeveloperID != nil || unknown.Developer != "Nobody Builders" {
		t.Fatalf("unknown developer should stay unlinked: %+v", unknown)
	}
	var n int64
	db.Model(&developer.Developer{}).Count(&n)
	if n != 1 {
		t.Fatalf("launch import created developers")
	}
}

func TestImportWritesAuditLog(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	if _, err := svc.ImportBatch(context.Background(), KindGovernorates, []byte(`[{"name":"Giza"}]`), admin); err != nil {
		t.Fatalf("import: %v", err)
	}
	var logs []auditlog.AuditLog
	db.Find(&logs)
	if len(logs) != 1 || logs[0].Action != "BULK_UPLOAD_GOVERNORATES" || logs[0].Status != auditlog.StatusSuccess {
		t.Fatalf("unexpected audit logs: %+v", logs)
	}
}

func TestGovernorateNamesWithSameOrNoSlug(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	body := `[{"name":"الجيزة"},{"name":"القاهرة"},{"name":"New Cairo"},{"name":"New-Cairo"}]`
	res, err := svc.ImportBatch(context.Background(), KindGovernorates, []byte(body), admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 4 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
}

func TestCityAutoCreateWithCollidingSlug(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&location.Governorate{Name: "Giza"}).Error; err != nil {
		t.Fatal(err)
	}
	svc := newTestService(t, db)

	opts := admin
	opts.AutoCreate = true
	res, err := svc.ImportBatch(context.Background(), KindCities, []byte(`[{"name":"Sheikh Zayed","governorate":"Giza!"}]`), opts)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Summary.Imported != 1 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
}

// flakyGovernorates fails to build any record named "Broken".
type flakyGovernorates struct{ governoratesPipeline }

func (p flakyGovernorates) build(ctx context.Context, idx int, r *GovernorateRecord, res Resolution) (*location.Governorate, []ImageWarning, error) {
	if r.Name.String() == "Broken" {
		return nil, nil, errors.New("cannot build")
	}
	return p.governoratesPipeline.build(ctx, idx, r, res)
}

func TestDroppedRecordIsNotValidated(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	raw, err := svc.ParseBatch([]byte(`[{"name":"Giza"},{"name":"Broken"},{"name":"Cairo"}]`))
	if err != nil {
		t.Fatal(err)
	}
	p := flakyGovernorates{governoratesPipeline{deps{store: svc.store, images: stubImages{}, opts: admin, isID: UUIDMatcher}}}
	res, err := run[GovernorateRecord, location.Governorate](context.Background(), svc, KindGovernorates, p, raw, ChunkRunner{Parallelism: 1}, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Summary.Imported != 2 || res.Summary.Failed != 1 || res.Summary.Validated != 2 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Index != 1 {
		t.Fatalf("unexpected warnings: %+v", res.Warnings)
	}
	checkAccounting(t, res.Summary)
}
