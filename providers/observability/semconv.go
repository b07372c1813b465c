package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Input Attributes ---

const (
	// AttrInputLength is the length in bytes of the raw model text
	AttrInputLength = "salvage.input.length"

	// AttrInputPreview is a truncated preview of the raw model text
	AttrInputPreview = "salvage.input.preview"

	// AttrSchema is the target record schema ("errors" or "questions")
	AttrSchema = "salvage.schema"
)

// --- Extraction Attributes ---

const (
	// AttrTier is the name of a recovery tier (e.g., "fence", "salvage")
	AttrTier = "salvage.tier"

	// AttrParseStage is the step of the decode retry chain that succeeded
	AttrParseStage = "salvage.parse.stage"

	// AttrCandidates is the number of raw candidate objects a tier produced
	AttrCandidates = "salvage.candidates"

	// AttrRecords is the number of normalized records returned
	AttrRecords = "salvage.records"

	// AttrDropped is the number of candidates rejected during normalization
	AttrDropped = "salvage.dropped"

	// AttrScanStarts is the number of candidate start offsets examined
	AttrScanStarts = "salvage.scan.starts"

	// AttrScanBudgetLeft is the number of scan bytes left in the budget
	AttrScanBudgetLeft = "salvage.scan.budget_left"

	// AttrRecordIndex is the position of a candidate within its tier's output
	AttrRecordIndex = "salvage.record.index"

	// AttrDropReason explains why a candidate was rejected
	AttrDropReason = "salvage.record.drop_reason"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanExtract is the span name for one extraction call
	SpanExtract = "salvage.extract"
)

// --- Event Names ---

const (
	// EventTierAttempt marks the start of a tier attempt
	EventTierAttempt = "salvage.tier.attempt"

	// EventTierFailed marks a tier that produced no records
	EventTierFailed = "salvage.tier.failed"

	// EventTierSucceeded marks the tier whose records are returned
	EventTierSucceeded = "salvage.tier.succeeded"

	// EventBudgetExhausted marks the scan budget running out
	EventBudgetExhausted = "salvage.scan.budget_exhausted"
)

// --- Metric Names ---

const (
	// MetricExtractCount counts extraction calls
	MetricExtractCount = "salvage.extract.count"

	// MetricExtractEmpty counts extraction calls that recovered nothing
	MetricExtractEmpty = "salvage.extract.empty"

	// MetricExtractDuration records extraction latency in seconds
	MetricExtractDuration = "salvage.extract.duration"

	// MetricRecordsRecovered counts normalized records returned
	MetricRecordsRecovered = "salvage.records.recovered"

	// MetricRecordsDropped counts candidates rejected during normalization
	MetricRecordsDropped = "salvage.records.dropped"

	// MetricTierPrefix prefixes the per-tier success counter, e.g. "salvage.extract.tier.fence"
	MetricTierPrefix = "salvage.extract.tier."
)
