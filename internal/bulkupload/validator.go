package bulkupload

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sharath018/realestate-backend/internal/auth"
	"github.com/sharath018/realestate-backend/internal/developer"
	"github.com/sharath018/realestate-backend/internal/launch"
	"github.com/sharath018/realestate-backend/internal/lead"
	"github.com/sharath018/realestate-backend/internal/location"
	"github.com/sharath018/realestate-backend/internal/property"
	"github.com/sharath018/realestate-backend/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneNoise   = regexp.MustCompile(`[\s\-().]`)
)

// cleanPhone strips formatting characters before the phone pattern is applied.
func cleanPhone(p string) string {
	return phoneNoise.ReplaceAllString(strings.TrimSpace(p), "")
}

// RefOutcome is the result of resolving one reference field.
type RefOutcome struct {
	Field      string
	Value      string
	ID         string
	AutoCreate bool
	// Optional references may miss without failing the record.
	Optional bool
}

// Resolution holds every reference resolved for one record.
type Resolution []RefOutcome

func (r Resolution) id(field string) string {
	for _, o := range r {
		if o.Field == field {
			return o.ID
		}
	}
	return ""
}

func (r Resolution) idPtr(field string) *string {
	if id := r.id(field); id != "" {
		return &id
	}
	return nil
}

func (r Resolution) errors() []string {
	var errs []string
	for _, o := range r {
		if o.Value == "" || o.ID != "" || o.Optional {
			continue
		}
		msg := fmt.Sprintf("%s reference %q could not be resolved", o.Field, o.Value)
		if o.AutoCreate {
			msg += " or created"
		}
		errs = append(errs, msg)
	}
	return errs
}

type resolveCtx struct {
	resolver   *Resolver
	cache      *Cache
	autoCreate bool
}

func (rc resolveCtx) ref(ctx context.Context, field string, kind RefKind, value, scope string, create bool) RefOutcome {
	out := RefOutcome{Field: field, Value: strings.TrimSpace(value), AutoCreate: create}
	if out.Value != "" {
		out.ID = rc.resolver.Resolve(ctx, rc.cache, kind, out.Value, scope, create)
	}
	return out
}

// pipeline is the per-kind behaviour the importer drives.
type pipeline[R any, M any] interface {
	// check runs syntactic checks that need no storage access.
	check(rec *R) []string
	// key is the in-batch natural key.
	key(rec *R, res Resolution) string
	exists(ctx context.Context, rec *R, res Resolution) (bool, error)
	resolve(ctx context.Context, rc resolveCtx, rec *R) Resolution
	build(ctx context.Context, idx int, rec *R, res Resolution) (*M, []ImageWarning, error)
}

type batch[R any] struct {
	raw        []json.RawMessage
	recs       []*R
	decodeErrs []error
}

func decodeBatch[R any](raw []json.RawMessage) *batch[R] {
	b := &batch[R]{raw: raw, recs: make([]*R, len(raw)), decodeErrs: make([]error, len(raw))}
	for i, msg := range raw {
		rec := new(R)
		trimmed := strings.TrimSpace(string(msg))
		if !strings.HasPrefix(trimmed, "{") {
			b.decodeErrs[i] = fmt.Errorf("record must be a JSON object")
		} else if err := json.Unmarshal(msg, rec); err != nil {
			b.decodeErrs[i] = err
		}
		b.recs[i] = rec
	}
	return b
}

// validate applies syntactic checks, then duplicate detection, then reference
// checks. A record lands in at most one of Errors and Skipped. Reference checks
// run only when resolved is non-nil. Records in carried keep their earlier skip
// and take no part in key matching.
func validate[R any, M any](ctx context.Context, p pipeline[R, M], b *batch[R], resolved []Resolution, carried []SkippedRecord) (*ValidationReport, error) {
	report := &ValidationReport{Errors: []RecordError{}, Skipped: []SkippedRecord{}}
	seen := make(map[string]int)
	prior := make(map[int]SkippedRecord, len(carried))
	for _, sk := range carried {
		prior[sk.Index] = sk
	}

	for i, rec := range b.recs {
		if sk, ok := prior[i]; ok {
			report.Skipped = append(report.Skipped, sk)
			continue
		}
		if err := b.decodeErrs[i]; err != nil {
			report.Errors = append(report.Errors, RecordError{Index: i, Record: b.raw[i], Errors: []string{"record could not be parsed: " + err.Error()}})
			continue
		}
		if errs := p.check(rec); len(errs) > 0 {
			report.Errors = append(report.Errors, RecordError{Index: i, Record: b.raw[i], Errors: errs})
			continue
		}

		var res Resolution
		if resolved != nil {
			res = resolved[i]
		}

		key := p.key(rec, res)
		if first, dup := seen[key]; dup {
			report.Skipped = append(report.Skipped, SkippedRecord{
				Index: i, Record: b.raw[i],
				Reason: fmt.Sprintf("duplicate of record %d in this batch", first),
			})
			continue
		}
		seen[key] = i

		exists, err := p.exists(ctx, rec, res)
		if err != nil {
			return nil, fmt.Errorf("duplicate check for record %d: %w", i, err)
		}
		if exists {
			report.Skipped = append(report.Skipped, SkippedRecord{Index: i, Record: b.raw[i], Reason: "already exists"})
			continue
		}

		if resolved != nil {
			if errs := res.errors(); len(errs) > 0 {
				report.Errors = append(report.Errors, RecordError{Index: i, Record: b.raw[i], Errors: errs})
			}
		}
	}
	return report, nil
}

func required(field string, v types.FlexString, errs []string) []string {
	if v.String() == "" {
		errs = append(errs, field+" is required")
	}
	return errs
}

func checkRate(v types.FlexFloat, errs []string) []string {
	switch {
	case !v.Present:
	case v.Invalid:
		errs = append(errs, "annualAppreciationRate must be a number")
	case v.Value < 0 || v.Value > 100:
		errs = append(errs, "annualAppreciationRate must be between 0 and 100")
	}
	return errs
}

func checkPositive(field string, v types.FlexFloat, errs []string) []string {
	if v.Present && (v.Invalid || v.Value <= 0) {
		errs = append(errs, field+" must be a positive number")
	}
	return errs
}

func checkNonNegative(field string, v types.FlexFloat, errs []string) []string {
	if v.Present && (v.Invalid || v.Value < 0) {
		errs = append(errs, field+" must be a non-negative number")
	}
	return errs
}

func checkEmail(v types.FlexString, errs []string) []string {
	if email := v.String(); email == "" {
		errs = append(errs, "email is required")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "Invalid email format")
	}
	return errs
}

func lowerKey(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

// ===============================
// Users
// ===============================

func (usersPipeline) check(r *UserRecord) []string {
	var errs []string
	errs = required("name", r.Name, errs)
	errs = checkEmail(r.Email, errs)
	if pw := r.Password.String(); pw != "" && len(pw) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	errs = userRoles.check(r.Role.String(), errs)
	return errs
}

func (usersPipeline) key(r *UserRecord, _ Resolution) string { return lowerKey(r.Email.String()) }

func (p usersPipeline) exists(ctx context.Context, r *UserRecord, _ Resolution) (bool, error) {
	return p.store.Exists(ctx, &auth.User{}, Match{"email", r.Email.String()})
}

func (usersPipeline) resolve(context.Context, resolveCtx, *UserRecord) Resolution { return nil }

// ===============================
// Developers
// ===============================

func (developersPipeline) check(r *DeveloperRecord) []string {
	return required("name", r.Name, nil)
}

func (developersPipeline) key(r *DeveloperRecord, _ Resolution) string { return lowerKey(r.Name.String()) }

func (p developersPipeline) exists(ctx context.Context, r *DeveloperRecord, _ Resolution) (bool, error) {
	return p.store.Exists(ctx, &developer.Developer{}, Match{"name", r.Name.String()})
}

func (developersPipeline) resolve(context.Context, resolveCtx, *DeveloperRecord) Resolution {
	return nil
}

// ===============================
// Governorates
// ===============================

func (governoratesPipeline) check(r *GovernorateRecord) []string {
	errs := required("name", r.Name, nil)
	return checkRate(r.AnnualAppreciationRate, errs)
}

func (governoratesPipeline) key(r *GovernorateRecord, _ Resolution) string {
	return lowerKey(r.Name.String())
}

func (p governoratesPipeline) exists(ctx context.Context, r *GovernorateRecord, _ Resolution) (bool, error) {
	return p.store.Exists(ctx, &location.Governorate{}, Match{"name", r.Name.String()})
}

func (governoratesPipeline) resolve(context.Context, resolveCtx, *GovernorateRecord) Resolution {
	return nil
}

// ===============================
// Cities
// ===============================

func (citiesPipeline) check(r *CityRecord) []string {
	errs := required("name", r.Name, nil)
	return checkRate(r.AnnualAppreciationRate, errs)
}

func (citiesPipeline) key(r *CityRecord, _ Resolution) string { return lowerKey(r.Name.String()) }

func (p citiesPipeline) exists(ctx context.Context, r *CityRecord, _ Resolution) (bool, error) {
	return p.store.Exists(ctx, &location.City{}, Match{"name", r.Name.String()})
}

func (citiesPipeline) resolve(ctx context.Context, rc resolveCtx, r *CityRecord) Resolution {
	return Resolution{rc.ref(ctx, "governorate", RefGovernorate, r.Governorate.String(), "", rc.autoCreate)}
}

// ===============================
// Areas
// ===============================

func (areasPipeline) check(r *AreaRecord) []string {
	errs := required("name", r.Name, nil)
	errs = required("city", r.City, errs)
	return checkRate(r.AnnualAppreciationRate, errs)
}

// areaCity is the city scope of an area: the resolved ID, or the raw value
// before resolution has run.
func (p areasPipeline) areaCity(r *AreaRecord, res Resolution) string {
	if id := res.id("city"); id != "" {
		return id
	}
	return r.City.String()
}

func (p areasPipeline) key(r *AreaRecord, res Resolution) string {
	return lowerKey(r.Name.String(), p.areaCity(r, res))
}

func (p areasPipeline) exists(ctx context.Context, r *AreaRecord, res Resolution) (bool, error) {
	cityID := res.id("city")
	if cityID == "" && p.isID(r.City.String()) {
		cityID = r.City.String()
	}
	if cityID == "" {
		return false, nil
	}
	return p.store.Exists(ctx, &location.Area{}, Match{"name", r.Name.String()}, Match{"city_id", cityID})
}

func (areasPipeline) resolve(ctx context.Context, rc resolveCtx, r *AreaRecord) Resolution {
	gov := rc.ref(ctx, "governorate", RefGovernorate, r.Governorate.String(), "", rc.autoCreate)
	city := rc.ref(ctx, "city", RefCity, r.City.String(), gov.ID, rc.autoCreate)
	return Resolution{gov, city}
}

// ===============================
// Properties
// ===============================

func (propertiesPipeline) check(r *PropertyRecord) []string {
	var errs []string
	errs = required("title", r.Title, errs)

	if t := r.Type.String(); t == "" {
		errs = append(errs, "type is required")
	} else {
		errs = propertyTypes.check(t, errs)
	}

	if !r.Price.Present {
		errs = append(errs, "price is required")
	} else {
		errs = checkPositive("price", r.Price, errs)
	}

	errs = propertyStatuses.check(r.Status.String(), errs)
	errs = developerStatuses.check(r.DeveloperStatus.String(), errs)
	errs = currencies.check(r.Currency.String(), errs)

	errs = checkPositive("specifications.area", r.Specifications.Area, errs)
	errs = checkNonNegative("specifications.bedrooms", r.Specifications.Bedrooms, errs)
	errs = checkNonNegative("specifications.bathrooms", r.Specifications.Bathrooms, errs)

	loc := r.Location
	if r.hasHierarchicalRefs() {
		if loc.Address.String() == "" {
			errs = append(errs, "location.address is required when governorate_ref, city_ref or area_ref is provided")
		}
	} else if loc.Address.String() == "" || loc.City.String() == "" || loc.State.String() == "" {
		errs = append(errs, "location is required: provide governorate_ref/city_ref/area_ref with location.address, or location.address, location.city and location.state")
	}
	return errs
}

func (propertiesPipeline) key(r *PropertyRecord, _ Resolution) string {
	return lowerKey(r.Title.String(), r.Location.Address.String())
}

func (p propertiesPipeline) exists(ctx context.Context, r *PropertyRecord, _ Resolution) (bool, error) {
	return p.store.Exists(ctx, &property.Property{},
		Match{"title", r.Title.String()},
		Match{"location_address", r.Location.Address.String()},
	)
}

// resolve always auto-creates: property uploads are expected to introduce new
// developers and locations.
func (propertiesPipeline) resolve(ctx context.Context, rc resolveCtx, r *PropertyRecord) Resolution {
	dev := rc.ref(ctx, "developer", RefDeveloper, r.Developer.String(), "", true)
	gov := rc.ref(ctx, "governorate_ref", RefGovernorate, r.GovernorateRef.String(), "", true)
	city := rc.ref(ctx, "city_ref", RefCity, r.CityRef.String(), gov.ID, true)
	area := rc.ref(ctx, "area_ref", RefArea, r.AreaRef.String(), city.ID, true)
	return Resolution{dev, gov, city, area}
}

// ===============================
// Leads
// ===============================

func (leadsPipeline) check(r *LeadRecord) []string {
	var errs []string
	errs = required("name", r.Name, errs)
	errs = checkEmail(r.Email, errs)
	if phone := cleanPhone(r.Phone.String()); phone == "" {
		errs = append(errs, "phone is required")
	} else if !phonePattern.MatchString(phone) {
		errs = append(errs, "Invalid phone format")
	}

	errs = leadServices.check(r.RequiredService.String(), errs)
	errs = leadPropertyTypes.check(r.PropertyType.String(), errs)
	errs = leadPurposes.check(r.Purpose.String(), errs)

	errs = checkNonNegative("budget.min", r.Budget.Min, errs)
	errs = checkNonNegative("budget.max", r.Budget.Max, errs)
	if r.Budget.Min.Valid() && r.Budget.Max.Valid() && r.Budget.Min.Value > r.Budget.Max.Value {
		errs = append(errs, "budget.min cannot exceed budget.max")
	}
	errs = budgetCurrencies.check(r.Budget.Currency.String(), errs)
	return errs
}

func (leadsPipeline) key(r *LeadRecord, _ Resolution) string {
	return lowerKey(r.Email.String(), cleanPhone(r.Phone.String()))
}

func (p leadsPipeline) exists(ctx context.Context, r *LeadRecord, _ Resolution) (bool, error) {
	return p.store.Exists(ctx, &lead.Lead{},
		Match{"email", r.Email.String()},
		Match{"phone", cleanPhone(r.Phone.String())},
	)
}

func (leadsPipeline) resolve(ctx context.Context, rc resolveCtx, r *LeadRecord) Resolution {
	return Resolution{rc.ref(ctx, "assignedTo", RefUser, r.AssignedTo.String(), "", false)}
}

// ===============================
// Launches
// ===============================

var launchDateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "2006/01/02", "01-02-06"}

func parseLaunchDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range launchDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func (launchesPipeline) check(r *LaunchRecord) []string {
	var errs []string
	errs = required("title", r.Title, errs)
	errs = required("developer", r.Developer, errs)
	errs = launchTypes.check(r.PropertyType.String(), errs)
	errs = launchStatuses.check(r.Status.String(), errs)
	errs = currencies.check(r.Currency.String(), errs)
	errs = checkPositive("startingPrice", r.StartingPrice, errs)
	errs = checkPositive("area", r.Area, errs)
	errs = checkNonNegative("bedrooms", r.Bedrooms, errs)
	errs = checkNonNegative("bathrooms", r.Bathrooms, errs)
	if _, ok := parseLaunchDate(r.LaunchDate.String()); !ok {
		errs = append(errs, fmt.Sprintf("launchDate %q is not a valid date", r.LaunchDate.String()))
	}
	return errs
}

func (launchesPipeline) key(r *LaunchRecord, _ Resolution) string {
	return lowerKey(r.Title.String(), r.Developer.String())
}

func (p launchesPipeline) exists(ctx context.Context, r *LaunchRecord, _ Resolution) (bool, error) {
	return p.store.Exists(ctx, &launch.Launch{},
		Match{"title", r.Title.String()},
		Match{"developer", r.Developer.String()},
	)
}

// resolve looks the developer up without creating it; a miss keeps the free text only.
func (launchesPipeline) resolve(ctx context.Context, rc resolveCtx, r *LaunchRecord) Resolution {
	dev := rc.ref(ctx, "developer", RefDeveloper, r.Developer.String(), "", false)
	dev.Optional = true
	return Resolution{dev}
}
