package bulkupload

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sharath018/realestate-backend/internal/auth"
)

// Kind names an importable entity type.
type Kind string

const (
	KindUsers        Kind = "users"
	KindDevelopers   Kind = "developers"
	KindGovernorates Kind = "governorates"
	KindCities       Kind = "cities"
	KindAreas        Kind = "areas"
	KindProperties   Kind = "properties"
	KindLeads        Kind = "leads"
	KindLaunches     Kind = "launches"
)

// Kinds lists every importable kind in dependency order.
var Kinds = []Kind{
	KindUsers, KindDevelopers, KindGovernorates, KindCities,
	KindAreas, KindProperties, KindLeads, KindLaunches,
}

var (
	ErrInvalidBatch      = errors.New("invalid batch")
	ErrUnsupportedEntity = errors.New("unsupported entity type")
)

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedEntity, s)
}

// Actor is the authenticated caller running an import.
type Actor struct {
	UserID      string
	Role        string
	Hierarchy   int
	Permissions auth.Permissions
}

// CanAutoApprove reports whether properties created by the actor skip review.
func (a Actor) CanAutoApprove() bool {
	return (a.Hierarchy > 0 && a.Hierarchy <= auth.HierarchyForRole(auth.RoleSalesManager)) ||
		a.Permissions.CanApproveProperties
}

// Options tune one ImportBatch call.
type Options struct {
	Actor Actor
	// AutoCreate enables parent creation for cities and areas.
	// Properties always auto-create their references.
	AutoCreate bool
	IP         string
}

type RecordError struct {
	Index  int             `json:"index"`
	Record json.RawMessage `json:"record"`
	Errors []string        `json:"errors"`
}

type SkippedRecord struct {
	Index  int             `json:"index"`
	Record json.RawMessage `json:"record"`
	Reason string          `json:"reason"`
}

type ImageWarning struct {
	Index     int    `json:"index"`
	Field     string `json:"field"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// ProcessingWarning records a record dropped after validation.
type ProcessingWarning struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Summary always satisfies Total == Imported + Skipped + Failed. Validated
// counts records that passed validation and were not dropped while building
// their model.
type Summary struct {
	Total     int `json:"total"`
	Imported  int `json:"imported"`
	Validated int `json:"validated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type Result struct {
	Kind           Kind                `json:"kind"`
	Summary        Summary             `json:"summary"`
	SkippedRecords []SkippedRecord     `json:"skippedRecords"`
	ImageWarnings  []ImageWarning      `json:"imageWarnings"`
	Warnings       []ProcessingWarning `json:"warnings,omitempty"`
	Errors         []RecordError       `json:"errors,omitempty"`
}

// ValidationReport is the validator output for one batch.
type ValidationReport struct {
	Errors  []RecordError
	Skipped []SkippedRecord
}

func (r *ValidationReport) skippedSet() map[int]bool {
	set := make(map[int]bool, len(r.Skipped))
	for _, s := range r.Skipped {
		set[s.Index] = true
	}
	return set
}

// ValidationError aborts a batch before any record is written.
type ValidationError struct {
	Kind   Kind
	Total  int
	Report *ValidationReport
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d of %d %s records", len(e.Report.Errors), e.Total, e.Kind)
}
