package bulkupload

import (
	"regexp"
	"strings"

	"github.com/sharath018/realestate-backend/internal/auth"
	"github.com/sharath018/realestate-backend/internal/lead"
	"github.com/sharath018/realestate-backend/internal/launch"
	"github.com/sharath018/realestate-backend/internal/property"
)

var separatorRun = regexp.MustCompile(`[\s_-]+`)

// Canonical lowercases s and collapses runs of spaces, '-' and '_' into a
// single '_'. "For Sale", "for-sale" and "FOR_SALE" all become "for_sale".
func Canonical(s string) string {
	s = separatorRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "_")
	return strings.Trim(s, "_")
}

// EnumTable maps every accepted spelling of a closed value set to its stored form.
type EnumTable struct {
	field  string
	values []string
	lookup map[string]string
}

// NewEnumTable builds the lookup from the stored values themselves.
func NewEnumTable(field string, values ...string) EnumTable {
	t := EnumTable{field: field, values: values, lookup: make(map[string]string, len(values))}
	for _, v := range values {
		t.lookup[Canonical(v)] = v
	}
	return t
}

// Normalize returns the stored value for raw.
func (t EnumTable) Normalize(raw string) (string, bool) {
	v, ok := t.lookup[Canonical(raw)]
	return v, ok
}

// Values returns the stored values in declaration order.
func (t EnumTable) Values() []string {
	return t.values
}

func (t EnumTable) invalid(raw string) string {
	return t.field + " \"" + raw + "\" is invalid; expected one of " + strings.Join(t.values, ", ")
}

// check appends a message when a supplied value is outside the set.
func (t EnumTable) check(raw string, errs []string) []string {
	if raw == "" {
		return errs
	}
	if _, ok := t.Normalize(raw); !ok {
		errs = append(errs, t.invalid(raw))
	}
	return errs
}

// normalizeOr maps raw to its stored value, or def when raw is empty or unknown.
func (t EnumTable) normalizeOr(raw, def string) string {
	if v, ok := t.Normalize(raw); ok {
		return v
	}
	return def
}

func (t EnumTable) ptr(raw string) *string {
	if v, ok := t.Normalize(raw); ok {
		return &v
	}
	return nil
}

var (
	propertyTypes     = NewEnumTable("type", property.Types...)
	propertyStatuses  = NewEnumTable("status", property.Statuses...)
	developerStatuses = NewEnumTable("developerStatus", property.DeveloperStatuses...)
	currencies        = NewEnumTable("currency", property.Currencies...)
	leadServices      = NewEnumTable("requiredService", lead.Services...)
	leadPropertyTypes = NewEnumTable("propertyType", property.Types...)
	leadPurposes      = NewEnumTable("purpose", lead.Purposes...)
	budgetCurrencies  = NewEnumTable("budget.currency", property.Currencies...)
	launchStatuses    = NewEnumTable("status", launch.Statuses...)
	launchTypes       = NewEnumTable("propertyType", property.Types...)
	userRoles         = NewEnumTable("role", auth.Roles()...)
)
