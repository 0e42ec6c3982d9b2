package bulkupload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sharath018/realestate-backend/config"
	"github.com/sharath018/realestate-backend/internal/auditlog"
	"github.com/sharath018/realestate-backend/internal/media"
)

const (
	defaultMaxBatchSize = 1000
	defaultChunkSize    = 50
	insertBatchSize     = 100
	userHashParallelism = 8
)

type Service struct {
	store      Store
	resolver   *Resolver
	images     media.Resolver
	audit      auditlog.Service
	isID       IDMatcher
	maxBatch   int
	properties ChunkRunner
}

// NewService wires the importer. audit may be nil.
func NewService(store Store, images media.Resolver, audit auditlog.Service, cfg *config.Config) *Service {
	s := &Service{
		store:      store,
		images:     images,
		audit:      audit,
		isID:       UUIDMatcher,
		maxBatch:   defaultMaxBatchSize,
		properties: ChunkRunner{ChunkSize: defaultChunkSize, Parallelism: defaultChunkSize},
	}
	if cfg != nil {
		if cfg.BulkMaxBatchSize > 0 {
			s.maxBatch = cfg.BulkMaxBatchSize
		}
		if cfg.BulkPropertyChunkSize > 0 {
			s.properties.ChunkSize = cfg.BulkPropertyChunkSize
		}
		if cfg.BulkPropertyParallelism > 0 {
			s.properties.Parallelism = cfg.BulkPropertyParallelism
		}
	}
	s.resolver = NewResolver(store, s.isID)
	return s
}

// WithIDMatcher swaps the predicate that tells stored IDs from names.
func (s *Service) WithIDMatcher(m IDMatcher) *Service {
	if m != nil {
		s.isID = m
		s.resolver = NewResolver(s.store, m)
	}
	return s
}

// ParseBatch applies the intake guard to a raw request body.
func (s *Service) ParseBatch(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return nil, fmt.Errorf("%w: request body must be a JSON array of records", ErrInvalidBatch)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	return raw, s.checkSize(len(raw))
}

func (s *Service) checkSize(n int) error {
	if n == 0 {
		return fmt.Errorf("%w: at least one record is required", ErrInvalidBatch)
	}
	if n > s.maxBatch {
		return fmt.Errorf("%w: %d records exceeds the maximum batch size of %d", ErrInvalidBatch, n, s.maxBatch)
	}
	return nil
}

// ImportBatch validates, resolves and inserts one JSON array of records.
func (s *Service) ImportBatch(ctx context.Context, kind Kind, body []byte, opts Options) (*Result, error) {
	raw, err := s.ParseBatch(body)
	if err != nil {
		return emptyResult(kind, 0), err
	}
	return s.ImportRecords(ctx, kind, raw, opts)
}

// ImportRecords runs the import for already split records.
func (s *Service) ImportRecords(ctx context.Context, kind Kind, raw []json.RawMessage, opts Options) (*Result, error) {
	if err := s.checkSize(len(raw)); err != nil {
		return emptyResult(kind, len(raw)), err
	}

	d := deps{store: s.store, images: s.images, opts: opts, isID: s.isID}
	sequential := ChunkRunner{Parallelism: 1}
	// bcrypt dominates user imports, so hashing runs in parallel in one chunk.
	hashing := ChunkRunner{Parallelism: userHashParallelism}

	log.Printf("📦 Bulk upload started: %d %s", len(raw), kind)

	var (
		result *Result
		err    error
	)
	switch kind {
	case KindUsers:
		result, err = run(ctx, s, kind, usersPipeline{d}, raw, hashing, opts.AutoCreate)
	case KindDevelopers:
		result, err = run(ctx, s, kind, developersPipeline{d}, raw, sequential, opts.AutoCreate)
	case KindGovernorates:
		result, err = run(ctx, s, kind, governoratesPipeline{d}, raw, sequential, opts.AutoCreate)
	case KindCities:
		result, err = run(ctx, s, kind, citiesPipeline{d}, raw, sequential, opts.AutoCreate)
	case KindAreas:
		result, err = run(ctx, s, kind, areasPipeline{d}, raw, sequential, opts.AutoCreate)
	case KindProperties:
		result, err = run(ctx, s, kind, propertiesPipeline{d}, raw, s.properties, opts.AutoCreate)
	case KindLeads:
		result, err = run(ctx, s, kind, leadsPipeline{d}, raw, sequential, opts.AutoCreate)
	case KindLaunches:
		result, err = run(ctx, s, kind, launchesPipeline{d}, raw, sequential, opts.AutoCreate)
	default:
		return emptyResult(kind, len(raw)), fmt.Errorf("%w: %q", ErrUnsupportedEntity, kind)
	}

	s.recordAudit(ctx, kind, opts, result, err)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Printf("⚠️ Bulk upload of %s rejected: %d invalid records", kind, len(verr.Report.Errors))
		} else {
			log.Printf("❌ Bulk upload of %s failed: %v", kind, err)
		}
		return result, err
	}

	sum := result.Summary
	log.Printf("✅ Bulk upload of %s done: imported=%d skipped=%d failed=%d", kind, sum.Imported, sum.Skipped, sum.Failed)
	return result, nil
}

func emptyResult(kind Kind, total int) *Result {
	return &Result{
		Kind:           kind,
		Summary:        Summary{Total: total, Failed: total},
		SkippedRecords: []SkippedRecord{},
		ImageWarnings:  []ImageWarning{},
	}
}

// rejected builds the response for a batch stopped by the validation gate.
func rejected(kind Kind, total int, report *ValidationReport) (*Result, error) {
	skipped := len(report.Skipped)
	return &Result{
		Kind: kind,
		Summary: Summary{
			Total:     total,
			Validated: total - skipped - len(report.Errors),
			Skipped:   skipped,
			Failed:    total - skipped,
		},
		SkippedRecords: report.Skipped,
		ImageWarnings:  []ImageWarning{},
		Errors:         report.Errors,
	}, &ValidationError{Kind: kind, Total: total, Report: report}
}

// run drives one kind through check, resolve, validate, transform and insert.
func run[R any, M any](ctx context.Context, s *Service, kind Kind, p pipeline[R, M], raw []json.RawMessage, runner ChunkRunner, autoCreate bool) (*Result, error) {
	total := len(raw)
	b := decodeBatch[R](raw)

	// Syntactic and duplicate pass: nothing is resolved or created for records
	// that fail here.
	pre, err := validate(ctx, p, b, nil, nil)
	if err != nil {
		return emptyResult(kind, total), err
	}
	if len(pre.Errors) > 0 {
		return rejected(kind, total, pre)
	}

	// Only cities and areas read rc.autoCreate; the other kinds fix their own
	// creation policy per reference.
	rc := resolveCtx{resolver: s.resolver, cache: NewCache(), autoCreate: autoCreate}

	skipped := pre.skippedSet()
	resolved := make([]Resolution, total)
	for i, rec := range b.recs {
		if skipped[i] {
			continue
		}
		resolved[i] = p.resolve(ctx, rc, rec)
	}
	if n := rc.cache.Len(); n > 0 {
		log.Printf("🔗 Resolved %d distinct references for %s", n, kind)
	}

	report, err := validate(ctx, p, b, resolved, pre.Skipped)
	if err != nil {
		return emptyResult(kind, total), err
	}
	if len(report.Errors) > 0 {
		return rejected(kind, total, report)
	}

	result := &Result{
		Kind: kind,
		Summary: Summary{
			Total:     total,
			Validated: total - len(report.Skipped),
			Skipped:   len(report.Skipped),
		},
		SkippedRecords: report.Skipped,
		ImageWarnings:  []ImageWarning{},
	}
	if len(report.Skipped) == total {
		log.Printf("ℹ️ All %d %s records already exist, nothing to insert", total, kind)
		return result, nil
	}

	skipped = report.skippedSet()
	pending := make([]int, 0, total-len(report.Skipped))
	for i := range b.recs {
		if !skipped[i] {
			pending = append(pending, i)
		}
	}

	var build buildFunc[M] = func(ctx context.Context, idx int) (*M, []ImageWarning, error) {
		return p.build(ctx, idx, b.recs[idx], resolved[idx])
	}

	parallelism := runner.normalized(len(pending)).Parallelism
	err = runner.Each(ctx, pending, func(ctx context.Context, chunkNo int, chunk []int) error {
		outcomes := transformAll(ctx, parallelism, chunk, build)

		models := make([]*M, 0, len(outcomes))
		for _, o := range outcomes {
			result.ImageWarnings = append(result.ImageWarnings, o.warnings...)
			if o.err != nil || o.model == nil {
				msg := "transform failed"
				if o.err != nil {
					msg += ": " + o.err.Error()
				}
				log.Printf("⚠️ %s record %d dropped: %s", kind, o.index, msg)
				result.Warnings = append(result.Warnings, ProcessingWarning{Index: o.index, Message: msg})
				result.Summary.Validated--
				result.Summary.Failed++
				continue
			}
			models = append(models, o.model)
		}
		if len(models) == 0 {
			return nil
		}

		if err := s.store.InsertBatch(ctx, models, insertBatchSize); err != nil {
			return fmt.Errorf("insert %s chunk %d: %w", kind, chunkNo+1, err)
		}
		result.Summary.Imported += len(models)
		log.Printf("✅ Inserted %s chunk %d (%d records)", kind, chunkNo+1, len(models))
		return nil
	})
	if err != nil {
		result.Summary.Failed = total - result.Summary.Imported - result.Summary.Skipped
		return result, err
	}
	return result, nil
}

func (s *Service) recordAudit(ctx context.Context, kind Kind, opts Options, result *Result, err error) {
	if s.audit == nil {
		return
	}
	details := map[string]interface{}{"entity": string(kind)}
	if result != nil {
		details["total"] = result.Summary.Total
		details["imported"] = result.Summary.Imported
		details["skipped"] = result.Summary.Skipped
		details["failed"] = result.Summary.Failed
		details["imageWarnings"] = len(result.ImageWarnings)
	}
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
		details["error"] = err.Error()
	}

	var userID *string
	if opts.Actor.UserID != "" {
		id := opts.Actor.UserID
		userID = &id
	}
	action := "BULK_UPLOAD_" + strings.ToUpper(string(kind))
	if auditErr := s.audit.LogAction(ctx, userID, action, details, opts.IP, status); auditErr != nil {
		log.Printf("⚠️ Failed to write audit log for %s: %v", action, auditErr)
	}
}
