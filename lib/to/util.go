package to

func Ptr[T any](v T) *T {
	return &v
}

// NilString returns nil for the empty string, otherwise a pointer to the value.
func NilString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func EmptyString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Empty returns the zero value of the type if the pointer is nil, otherwise the value pointed to.
func Empty[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}
