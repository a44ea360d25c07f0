package types

import (
	"strings"
	"time"

	"maintlog/internal/models"
)

var criteriaDateLayouts = []string{"2006-01-02", "2006/01/02", "20060102"}

// SearchCriteria holds the optional ticket filters. A blank field places no
// constraint; present fields are combined with AND.
type SearchCriteria struct {
	ID          string `json:"id"          query:"id"`
	Date        string `json:"date"        query:"date"`
	Factory     string `json:"factory"     query:"factory"`
	Location    string `json:"location"    query:"location"`
	Status      string `json:"status"      query:"status"`
	Personnel   string `json:"personnel"   query:"personnel"`
	Description string `json:"description" query:"description"`
}

// Normalize returns a copy with every value trimmed.
func (c SearchCriteria) Normalize() SearchCriteria {
	return SearchCriteria{
		ID:          strings.TrimSpace(c.ID),
		Date:        strings.TrimSpace(c.Date),
		Factory:     strings.TrimSpace(c.Factory),
		Location:    strings.TrimSpace(c.Location),
		Status:      strings.TrimSpace(c.Status),
		Personnel:   strings.TrimSpace(c.Personnel),
		Description: strings.TrimSpace(c.Description),
	}
}

func (c *SearchCriteria) IsEmpty() bool {
	if c == nil {
		return true
	}
	n := c.Normalize()
	return n == SearchCriteria{}
}

// Day parses the date filter as a calendar day in loc. ok is false when no
// date filter is set.
func (c *SearchCriteria) Day(loc *time.Location) (day time.Time, ok bool, err error) {
	if c == nil {
		return time.Time{}, false, nil
	}
	raw := strings.TrimSpace(c.Date)
	if raw == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range criteriaDateLayouts {
		if parsed, parseErr := time.ParseInLocation(layout, raw, loc); parseErr == nil {
			return parsed, true, nil
		}
	}
	return time.Time{}, false, Wrap(ErrValidation, "invalid date filter "+raw)
}

func (c *SearchCriteria) Validate() error {
	_, _, err := c.Day(time.Local)
	return err
}

// Matches reports whether the ticket satisfies every present criterion.
// Comparisons are case-sensitive; the date filter compares the calendar day of
// CreatedAt in its own location. An unparsable date filter matches nothing.
func (c *SearchCriteria) Matches(ticket *models.MaintenanceTicket) bool {
	if c == nil {
		return true
	}
	n := c.Normalize()

	if n.ID != "" && ticket.ID != n.ID {
		return false
	}
	if n.Factory != "" && ticket.Factory != n.Factory {
		return false
	}
	if n.Status != "" && ticket.Status != n.Status {
		return false
	}
	if n.Personnel != "" && ticket.Personnel != n.Personnel {
		return false
	}
	if n.Location != "" && !strings.Contains(ticket.Location, n.Location) {
		return false
	}
	if n.Description != "" && !strings.Contains(ticket.Description, n.Description) {
		return false
	}

	day, ok, err := n.Day(ticket.CreatedAt.Location())
	if err != nil {
		return false
	}
	if ok && ticket.CreatedAt.Format("2006-01-02") != day.Format("2006-01-02") {
		return false
	}

	return true
}

// Filter keeps the matching tickets in their original order.
func (c *SearchCriteria) Filter(tickets []*models.MaintenanceTicket) []*models.MaintenanceTicket {
	filtered := make([]*models.MaintenanceTicket, 0, len(tickets))
	for _, ticket := range tickets {
		if c.Matches(ticket) {
			filtered = append(filtered, ticket)
		}
	}
	return filtered
}
