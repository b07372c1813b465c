// Package jsonschema derives JSON Schema documents from Go record types by
// reflection. It covers the flat shapes used for model output: structs,
// primitives, slices and pointers. Field names come from `json` tags;
// `jsonschema` tags add descriptions, enums and explicit required markers.
//
// The main entry points are [For] and [ArrayOf].
package jsonschema
