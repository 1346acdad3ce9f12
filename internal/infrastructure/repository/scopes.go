package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likePattern wraps a search term for a case-insensitive LIKE, escaping wildcards
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(search)) + "%"
}

// SearchScope matches search against any of the given columns, case-insensitively.
// LOWER(..) LIKE is used instead of ILIKE so the query runs on both postgres and sqlite.
func SearchScope(search string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" || len(columns) == 0 {
			return db
		}
		pattern := likePattern(search)
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}
