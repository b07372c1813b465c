package utils

// Ptr returns a pointer to v.
//
// Example:
//
//	total := utils.Ptr(5.0)
func Ptr[T any](v T) *T {
	return &v
}

