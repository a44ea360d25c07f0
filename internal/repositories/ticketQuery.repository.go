package repositories

import (
	"strings"
	"time"

	"maintlog/internal/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ticketColumnID          = "id"
	ticketColumnCreatedAt   = "Create_time"
	ticketColumnFactory     = "factory"
	ticketColumnLocation    = "location"
	ticketColumnStatus      = "status"
	ticketColumnPersonnel   = "personnel"
	ticketColumnDescription = "description"

	likeEscape = "!"
)

// ticketQuery accumulates typed WHERE predicates for a ticket search. Values
// are always bound as parameters; column names are quoted by the dialect.
type ticketQuery struct {
	exprs []clause.Expression
}

func newTicketQuery(criteria *types.SearchCriteria, loc *time.Location) (*ticketQuery, error) {
	query := &ticketQuery{}
	if criteria == nil {
		return query, nil
	}

	n := criteria.Normalize()
	query.equals(ticketColumnID, n.ID)
	query.equals(ticketColumnFactory, n.Factory)
	query.contains(ticketColumnLocation, n.Location)
	query.equals(ticketColumnStatus, n.Status)
	query.equals(ticketColumnPersonnel, n.Personnel)
	query.contains(ticketColumnDescription, n.Description)

	day, ok, err := n.Day(loc)
	if err != nil {
		return nil, err
	}
	if ok {
		query.onDay(ticketColumnCreatedAt, day)
	}

	return query, nil
}

func (q *ticketQuery) equals(column, value string) {
	if value == "" {
		return
	}
	q.exprs = append(q.exprs, clause.Eq{Column: clause.Column{Name: column}, Value: value})
}

func (q *ticketQuery) contains(column, value string) {
	if value == "" {
		return
	}
	q.exprs = append(q.exprs, likeExpr(column, "%"+escapeLike(value)+"%"))
}

func (q *ticketQuery) hasPrefix(column, value string) {
	q.exprs = append(q.exprs, likeExpr(column, escapeLike(value)+"%"))
}

// onDay matches the calendar day as a half-open range, the portable
// equivalent of DATE(column) = day.
func (q *ticketQuery) onDay(column string, day time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	q.exprs = append(q.exprs,
		clause.Gte{Column: clause.Column{Name: column}, Value: start},
		clause.Lt{Column: clause.Column{Name: column}, Value: end},
	)
}

func (q *ticketQuery) Len() int {
	return len(q.exprs)
}

func (q *ticketQuery) Apply(db *gorm.DB) *gorm.DB {
	if len(q.exprs) == 0 {
		return db
	}
	return db.Clauses(clause.Where{Exprs: q.exprs})
}

func likeExpr(column, pattern string) clause.Expression {
	return clause.Expr{
		SQL:  "? LIKE ? ESCAPE '" + likeEscape + "'",
		Vars: []any{clause.Column{Name: column}, pattern},
	}
}

func escapeLike(value string) string {
	return strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(value)
}
