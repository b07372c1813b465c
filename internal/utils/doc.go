// Package utils holds small helpers shared by the salvage packages: string
// previews for log attributes ([Preview], [TruncateString]), JSON rendering
// for diagnostics ([JSONToString]), pointer helpers ([Ptr], [Deref]) and an
// elapsed-time [Timer].
package utils
