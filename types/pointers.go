package types

// IntPtr returns a pointer to an int
func IntPtr(x int) *int {
	return &x
}

// BoolPtr returns a pointer to a bool
func BoolPtr(x bool) *bool {
	return &x
}
