package types

import "slices"

type Lookups struct {
	Factories []string `json:"factories"`
	Statuses  []string `json:"statuses"`
	Personnel []string `json:"personnel"`
}

// Allows reports whether value is acceptable for a lookup list. An empty list
// means the list is not configured and anything is accepted.
func Allows(values []string, value string) bool {
	return len(values) == 0 || slices.Contains(values, value)
}
