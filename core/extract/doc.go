// Package extract recovers structured records from raw language-model
// output.
//
// An [Extractor] runs a fixed ladder of recovery tiers over the text and
// returns the records of the first tier that yields at least one
// schema-valid record:
//
//  1. fence: the first fenced code block
//  2. largest-array: the balanced JSON array with the most valid records
//  3. container: an object holding the records under a known key
//  4. salvage: every complete record object, found one at a time
//  5. text: plain-text heuristics
//
// Work is bounded: each tier examines at most MaxStarts candidate start
// offsets and a whole extraction scans at most ScanBudget bytes.
//
// Extraction never fails. An empty result means nothing could be recovered.
//
//	questions := extract.Questions(completion)
//	errs := extract.Errors(completion)
package extract
