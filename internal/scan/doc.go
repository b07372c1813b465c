// Package scan locates delimiter-balanced regions inside arbitrary text.
//
// The scanner is a small finite-state machine with three states (neutral,
// inside a string literal, immediately after an escape inside a string) and
// a depth counter for the opening delimiter kind. Braces and brackets that
// appear inside quoted strings never contribute to the depth.
//
// Reaching the end of the text before the depth returns to zero is reported
// as "no span" rather than as an error: for language-model output it almost
// always means the completion was truncated, and callers fall back to
// salvaging individual records.
//
// Key entry points: [Balanced] for a single scan, [Starts] for enumerating
// candidate start offsets, and [Budget] for bounding the total work across
// many scans of the same text.
package scan
