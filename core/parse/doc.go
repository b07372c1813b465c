// Package parse decodes candidate spans of language-model output into
// generic JSON values. Because models routinely emit near-JSON, decoding
// walks a retry chain: a strict decode, then a decode after the lightweight
// syntax repair pass, then, when enabled, a decode after deep repair with
// jsonrepair.
//
// Decoded objects also have schema-style envelopes removed: models that
// confuse a JSON schema with data emit {"type": "string", "value": "x"} where
// "x" was expected, and [Records] flattens those back to plain values.
//
// The main entry points are [Decode], [Records] and [Object].
package parse
