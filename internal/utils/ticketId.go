package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"maintlog/internal/types"
)

const (
	TicketIDDateLayout = "20060102"
	TicketIDSeparator  = "-"
)

// TicketIDPrefix is the YYYYMMDD day prefix shared by every ticket created on date.
func TicketIDPrefix(date time.Time) string {
	return date.Format(TicketIDDateLayout)
}

func FormatTicketID(date time.Time, suffix int) string {
	return fmt.Sprintf("%s%s%d", TicketIDPrefix(date), TicketIDSeparator, suffix)
}

// ParseTicketID splits an identifier into its day prefix and sequence number.
func ParseTicketID(id string) (string, int, error) {
	prefix, rawSuffix, found := strings.Cut(id, TicketIDSeparator)
	if !found || len(prefix) != len(TicketIDDateLayout) {
		return "", 0, types.Wrap(types.ErrDataCorruption, "malformed ticket id "+strconv.Quote(id))
	}
	if _, err := time.Parse(TicketIDDateLayout, prefix); err != nil {
		return "", 0, types.Wrap(types.ErrDataCorruption, "malformed ticket id date "+strconv.Quote(id))
	}

	if !isCanonicalSuffix(rawSuffix) {
		return "", 0, types.Wrap(types.ErrDataCorruption, "malformed ticket id suffix "+strconv.Quote(id))
	}

	suffix, err := strconv.Atoi(rawSuffix)
	if err != nil || suffix <= 0 {
		return "", 0, types.Wrap(types.ErrDataCorruption, "malformed ticket id suffix "+strconv.Quote(id))
	}

	return prefix, suffix, nil
}

// isCanonicalSuffix accepts ASCII digits without a sign or leading zero, the
// only form FormatTicketID produces.
func isCanonicalSuffix(raw string) bool {
	if raw == "" || raw[0] == '0' {
		return false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}

// NextTicketID returns the identifier the next ticket created on date receives:
// one past the highest sequence number among existingIDs sharing the day
// prefix, or 1 when there are none. IDs from other days are ignored; a
// malformed ID for the same day fails with ErrDataCorruption.
func NextTicketID(date time.Time, existingIDs []string) (string, error) {
	prefix := TicketIDPrefix(date)

	highest := 0
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, prefix) {
			continue
		}

		idPrefix, suffix, err := ParseTicketID(id)
		if err != nil {
			return "", err
		}
		if idPrefix != prefix {
			continue
		}

		highest = max(highest, suffix)
	}

	if highest == math.MaxInt {
		return "", types.Wrap(types.ErrDataCorruption, "ticket id sequence exhausted for "+prefix)
	}

	return FormatTicketID(date, highest+1), nil
}
