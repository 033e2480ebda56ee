package database

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// BusinessSearchColumns are matched case-insensitively against every term.
var BusinessSearchColumns = []string{"name", "description", "keywords"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikeContains returns a LIKE pattern matching s anywhere, with wildcards in s escaped.
func LikeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// TermMatchPredicate builds "(unicode_lower(col) LIKE ? ESCAPE '\' OR ...)" over every
// column and term. Terms are expected lowercased.
func TermMatchPredicate(columns []string, terms []string) (string, []interface{}, error) {
	if len(terms) == 0 || len(columns) == 0 {
		return "", nil, fmt.Errorf("term match needs at least one column and one term")
	}
	or := sq.Or{}
	for _, term := range terms {
		pattern := LikeContains(term)
		for _, col := range columns {
			or = append(or, sq.Expr(fmt.Sprintf("unicode_lower(%s) LIKE ? ESCAPE '\\'", col), pattern))
		}
	}
	sqlStr, args, err := or.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build term match predicate: %w", err)
	}
	return sqlStr, args, nil
}

// UpsertInterestSQL builds an atomic insert-or-increment for a search interest row.
func UpsertInterestSQL(keyword string, villageKey uint, villageID *uint, now int64) (string, []interface{}, error) {
	queryBuilder := psql.Insert("search_interests").
		Columns("keyword", "village_key", "village_id", "count", "last_searched").
		Values(keyword, villageKey, villageID, 1, now).
		Suffix("ON CONFLICT(keyword, village_key) DO UPDATE SET").
		Suffix("count = search_interests.count + 1,").
		Suffix("last_searched = excluded.last_searched")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build SQL query for UpsertInterest: %w", err)
	}
	return sqlStr, args, nil
}

// TrendingSQL selects the top search interests of one village bucket.
func TrendingSQL(villageKey uint, limit int) (string, []interface{}, error) {
	queryBuilder := psql.Select("id", "keyword", "village_key", "village_id", "count", "last_searched").
		From("search_interests").
		Where(sq.Eq{"village_key": villageKey}).
		OrderBy("count DESC", "last_searched DESC", "id ASC").
		Limit(uint64(limit))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build SQL query for Trending: %w", err)
	}
	return sqlStr, args, nil
}
