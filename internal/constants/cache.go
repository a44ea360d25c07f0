package constants

import "time"

const (
	LookupsCacheKey    = "lookups:all"
	LookupsCacheExpiry = 60 * time.Minute
)
