// Package repair rewrites near-JSON text produced by language models into
// text a strict JSON decoder accepts.
//
// [Apply] is a cheap, deterministic, idempotent pass for the defects models
// produce most often: line comments, trailing commas and raw control
// characters inside string literals. It is string-aware, so already-valid
// JSON passes through unchanged.
//
// [Deep] delegates to github.com/kaptinlin/jsonrepair for heavier damage
// (single quotes, unquoted keys, Python constants, missing closers). Deep
// repair may invent structure and is therefore reserved for text that is
// already known to be a complete, balanced span.
package repair
