package repositories

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Paginate applies a 1-based page window. Non-positive values are left unbounded.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || limit <= 0 {
			return db
		}
		offset := (page - 1) * limit
		return db.Offset(offset).Limit(limit)
	}
}

// containsPattern builds a lowercase LIKE pattern for a case-insensitive substring match.
// User input never acts as a wildcard.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// anyColumnContains ORs a case-insensitive substring match over columns.
func anyColumnContains(term string, columns ...string) clause.Expression {
	pattern := containsPattern(term)
	exprs := make([]clause.Expression, 0, len(columns))
	for _, col := range columns {
		exprs = append(exprs, clause.Expr{
			SQL:  "LOWER(?) LIKE ? ESCAPE '\\'",
			Vars: []interface{}{clause.Column{Name: col}, pattern},
		})
	}
	return clause.Or(exprs...)
}

func orderBy(column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}
