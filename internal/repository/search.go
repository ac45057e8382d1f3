package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a substring LIKE pattern with '!' as the escape
// character, which every supported dialect accepts as a one-char literal.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// whereContains adds a case-insensitive substring match on any of columns.
// Postgres gets ILIKE; the other dialects compare lower-cased values.
func whereContains(db *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return db
	}

	pattern := containsPattern(term)
	postgres := db.Dialector.Name() == "postgres"

	conds := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		if postgres {
			conds = append(conds, col+" ILIKE ? ESCAPE '!'")
		} else {
			conds = append(conds, "LOWER("+col+") LIKE LOWER(?) ESCAPE '!'")
		}
		args = append(args, pattern)
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// Page is a 1-based page request; Range returns the inclusive row window.
type Page struct {
	Page     int
	PageSize int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

func (p Page) Range() (start, end int) {
	p = p.normalize()
	start = (p.Page - 1) * p.PageSize
	return start, start + p.PageSize - 1
}
