package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeContainsEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\% pure%`, LikeContains("100% pure"))
	assert.Equal(t, `%a\_b%`, LikeContains("a_b"))
}

func TestTermMatchPredicate(t *testing.T) {
	sqlStr, args, err := TermMatchPredicate([]string{"name", "keywords"}, []string{"oil", "tel"})
	require.NoError(t, err)

	assert.Equal(t, `(unicode_lower(name) LIKE ? ESCAPE '\' OR unicode_lower(keywords) LIKE ? ESCAPE '\' OR unicode_lower(name) LIKE ? ESCAPE '\' OR unicode_lower(keywords) LIKE ? ESCAPE '\')`, sqlStr)
	assert.Equal(t, []interface{}{"%oil%", "%oil%", "%tel%", "%tel%"}, args)

	_, _, err = TermMatchPredicate([]string{"name"}, nil)
	assert.Error(t, err)
}

func TestUpsertInterestSQL(t *testing.T) {
	sqlStr, args, err := UpsertInterestSQL("oil", 0, nil, 1700000000)
	require.NoError(t, err)

	assert.Contains(t, sqlStr, "INSERT INTO search_interests (keyword,village_key,village_id,count,last_searched) VALUES (?,?,?,?,?)")
	assert.Contains(t, sqlStr, "ON CONFLICT(keyword, village_key) DO UPDATE SET count = search_interests.count + 1, last_searched = excluded.last_searched")
	assert.Len(t, args, 5)
}
