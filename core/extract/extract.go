package extract

import (
	"context"

	"github.com/examlens/salvage/core/parse"
	"github.com/examlens/salvage/core/record"
	"github.com/examlens/salvage/internal/scan"
	"github.com/examlens/salvage/internal/utils"
	"github.com/examlens/salvage/providers/observability"
)

const (
	// DefaultMaxStarts is the default cap on candidate start offsets a tier
	// examines.
	DefaultMaxStarts = 256

	// DefaultScanBudget is the default number of bytes one extraction may
	// scan across all tiers.
	DefaultScanBudget = 4 << 20
)

// Extractor recovers records from model output. It is immutable once built
// and safe for concurrent use.
type Extractor struct {
	maxStarts  int
	scanBudget int
	deepRepair bool
	normalizer *record.Normalizer
	observer   observability.Provider
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithObserver sets the observability provider used for spans, metrics and
// logs. Without one, the provider carried by the call's context is used, if
// any.
func WithObserver(p observability.Provider) Option {
	return func(e *Extractor) {
		e.observer = p
	}
}

// WithMaxStarts caps the candidate start offsets each tier examines.
// Values below 1 remove the cap.
func WithMaxStarts(n int) Option {
	return func(e *Extractor) {
		e.maxStarts = n
	}
}

// WithScanBudget caps the bytes scanned per extraction. Values below 1
// remove the cap.
func WithScanBudget(n int) Option {
	return func(e *Extractor) {
		e.scanBudget = n
	}
}

// WithNormalizer replaces the default record normalizer.
func WithNormalizer(nz *record.Normalizer) Option {
	return func(e *Extractor) {
		e.normalizer = nz
	}
}

// WithDeepRepair toggles the jsonrepair step for complete arrays and
// objects. It is on by default and never applies to salvaged records.
func WithDeepRepair(enabled bool) Option {
	return func(e *Extractor) {
		e.deepRepair = enabled
	}
}

// New returns an Extractor with the given options applied.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		maxStarts:  DefaultMaxStarts,
		scanBudget: DefaultScanBudget,
		deepRepair: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.normalizer == nil {
		e.normalizer = record.NewNormalizer(record.WithObserver(e.observer))
	}
	return e
}

var defaultExtractor = New()

// Errors recovers assessment-error records with the default settings.
func Errors(text string) []record.AssessmentError {
	return defaultExtractor.Errors(context.Background(), text)
}

// Questions recovers quiz-question records with the default settings.
func Questions(text string) []record.QuizQuestion {
	return defaultExtractor.Questions(context.Background(), text)
}

// Raw returns the raw candidates of the first successful tier with the
// default settings.
func Raw(text string, schema record.Schema) ([]map[string]any, Tier) {
	return defaultExtractor.Raw(context.Background(), text, schema)
}

// Errors recovers assessment-error records from text.
func (e *Extractor) Errors(ctx context.Context, text string) []record.AssessmentError {
	raws, _ := e.Raw(ctx, text, record.SchemaErrors)
	out := e.normalizer.Errors(ctx, raws)
	e.recordCounts(ctx, record.SchemaErrors, len(raws), len(out))
	return out
}

// Questions recovers quiz-question records from text.
func (e *Extractor) Questions(ctx context.Context, text string) []record.QuizQuestion {
	raws, _ := e.Raw(ctx, text, record.SchemaQuestions)
	out := e.normalizer.Questions(ctx, raws)
	e.recordCounts(ctx, record.SchemaQuestions, len(raws), len(out))
	return out
}

// provider returns the configured observer, falling back to the one attached
// to ctx and then to a no-op provider.
func (e *Extractor) provider(ctx context.Context) observability.Provider {
	if e.observer != nil {
		return e.observer
	}
	return observability.OrNop(observability.ObserverFromContext(ctx))
}

func (e *Extractor) recordCounts(ctx context.Context, schema record.Schema, candidates, kept int) {
	obs := e.provider(ctx)
	attr := observability.String(observability.AttrSchema, schema.String())
	obs.Counter(observability.MetricRecordsRecovered).Add(ctx, int64(kept), attr)
	if dropped := candidates - kept; dropped > 0 {
		obs.Counter(observability.MetricRecordsDropped).Add(ctx, int64(dropped), attr)
		obs.Debug(ctx, "Candidates dropped during normalization",
			attr,
			observability.Int(observability.AttrRecords, kept),
			observability.Int(observability.AttrDropped, dropped),
		)
	}
}

// Raw runs the tier ladder and returns the raw candidate objects of the
// first tier that yields at least one valid record, with that tier. It
// returns nil and TierNone when every tier fails.
func (e *Extractor) Raw(ctx context.Context, text string, schema record.Schema) ([]map[string]any, Tier) {
	obs := e.provider(ctx)
	schemaAttr := observability.String(observability.AttrSchema, schema.String())
	ctx, span := obs.StartSpan(ctx, observability.SpanExtract,
		schemaAttr,
		observability.Int(observability.AttrInputLength, len(text)),
	)
	defer span.End()

	timer := utils.NewTimer()
	obs.Counter(observability.MetricExtractCount).Add(ctx, 1, schemaAttr)

	r := &run{
		ctx:        ctx,
		text:       text,
		schema:     schema,
		budget:     scan.NewBudget(e.scanBudget),
		maxStarts:  e.maxStarts,
		deep:       e.deepRepair,
		normalizer: e.normalizer,
		span:       span,
	}
	raws, tier := r.climb()

	elapsed := timer.Stop()
	obs.Histogram(observability.MetricExtractDuration).Record(ctx, elapsed.Seconds(), schemaAttr)

	if tier == TierNone {
		obs.Counter(observability.MetricExtractEmpty).Add(ctx, 1, schemaAttr)
		span.SetStatus(observability.StatusOK, "nothing recovered")
		obs.Warn(ctx, "No records recovered from model output",
			schemaAttr,
			observability.Int(observability.AttrInputLength, len(text)),
			observability.String(observability.AttrInputPreview, utils.Preview(text, 0)),
			observability.Duration(observability.AttrDuration, elapsed),
		)
		return nil, TierNone
	}

	obs.Counter(observability.MetricTierPrefix+tier.String()).Add(ctx, 1, schemaAttr)
	span.SetAttributes(
		observability.String(observability.AttrTier, tier.String()),
		observability.Int(observability.AttrCandidates, len(raws)),
	)
	span.SetStatus(observability.StatusOK, "")
	obs.Debug(ctx, "Records extracted",
		schemaAttr,
		observability.String(observability.AttrTier, tier.String()),
		observability.Int(observability.AttrCandidates, len(raws)),
		observability.Int(observability.AttrScanStarts, r.starts),
		observability.Int(observability.AttrScanBudgetLeft, r.budget.Remaining()),
		observability.Duration(observability.AttrDuration, elapsed),
	)
	return raws, tier
}

// run is the per-extraction state shared by the tiers.
type run struct {
	ctx        context.Context
	text       string
	schema     record.Schema
	budget     *scan.Budget
	maxStarts  int
	deep       bool
	normalizer *record.Normalizer
	span       observability.Span
	starts     int
	exhausted  bool

	// stage is the furthest retry-chain step the current tier needed.
	stage parse.Stage
}

func (r *run) climb() ([]map[string]any, Tier) {
	for _, step := range ladder {
		tierAttr := observability.String(observability.AttrTier, step.tier.String())
		r.span.AddEvent(observability.EventTierAttempt, tierAttr)

		r.stage = parse.StageStrict
		raws := step.fn(r)
		if r.accepted(raws) > 0 {
			attrs := []observability.Attribute{
				tierAttr,
				observability.Int(observability.AttrCandidates, len(raws)),
			}
			if step.tier != TierText {
				attrs = append(attrs, observability.String(observability.AttrParseStage, r.stage.String()))
			}
			r.span.AddEvent(observability.EventTierSucceeded, attrs...)
			return raws, step.tier
		}
		r.span.AddEvent(observability.EventTierFailed, tierAttr,
			observability.Int(observability.AttrCandidates, len(raws)))
	}
	return nil, TierNone
}

// accepted counts the candidates that normalize into valid records.
func (r *run) accepted(raws []map[string]any) int {
	n := 0
	for i, raw := range raws {
		var err error
		switch r.schema {
		case record.SchemaErrors:
			_, err = r.normalizer.Error(raw)
		case record.SchemaQuestions:
			_, err = r.normalizer.Question(raw, i+1)
		default:
			return 0
		}
		if err == nil {
			n++
		}
	}
	return n
}

// balanced scans one span against the extraction budget.
func (r *run) balanced(start int) (scan.Span, bool) {
	return r.balancedIn(r.text, start)
}

func (r *run) balancedIn(text string, start int) (scan.Span, bool) {
	r.starts++
	span, ok := r.budget.Balanced(text, start)
	if !ok && !r.exhausted && r.budget.Exhausted() {
		r.exhausted = true
		r.span.AddEvent(observability.EventBudgetExhausted,
			observability.Int(observability.AttrScanStarts, r.starts))
	}
	return span, ok
}

func (r *run) parseOptions() []parse.Option {
	return []parse.Option{parse.WithDeepRepair(r.deep)}
}
