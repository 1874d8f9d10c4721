package search

import (
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ParseLimit(""))
	assert.Equal(t, DefaultLimit, ParseLimit("abc"))
	assert.Equal(t, 1, ParseLimit("0"))
	assert.Equal(t, 1, ParseLimit("-5"))
	assert.Equal(t, 50, ParseLimit("50"))
	assert.Equal(t, MaxLimit, ParseLimit("100"))
	assert.Equal(t, MaxLimit, ParseLimit("5000"))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 7, ParsePage("7"))
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(25, 1, 10)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.Pages)

	assert.Equal(t, 1, NewMeta(0, 1, 20).Pages, "empty result is still one page")
	assert.Equal(t, 1, NewMeta(20, 1, 20).Pages)
	assert.Equal(t, 2, NewMeta(21, 1, 20).Pages)
}

func TestSortFieldsAllowList(t *testing.T) {
	allowed := []string{"createdAt", "price", "views"}

	sort := SortFields(url.Values{"sortBy": {"price"}, "sortOrder": {"asc"}}, allowed)
	require.Len(t, sort, 2)
	assert.Equal(t, bson.E{Key: "price", Value: 1}, sort[0])
	assert.Equal(t, bson.E{Key: "createdAt", Value: -1}, sort[1], "tie-break keeps pagination stable")

	sort = SortFields(url.Values{"sortBy": {"price"}}, allowed)
	assert.Equal(t, bson.E{Key: "price", Value: -1}, sort[0], "default order is descending")

	sort = SortFields(url.Values{"sortBy": {"password"}}, allowed)
	require.Len(t, sort, 1)
	assert.Equal(t, bson.E{Key: "createdAt", Value: -1}, sort[0], "unknown field falls back")

	sort = SortFields(url.Values{"sortBy": {"createdAt"}, "sortOrder": {"asc"}}, allowed)
	require.Len(t, sort, 1, "createdAt does not get a duplicate tie-break")
	assert.Equal(t, bson.E{Key: "createdAt", Value: 1}, sort[0])
}

func TestSpecSkip(t *testing.T) {
	s := Spec{Page: 3, Limit: 20}
	assert.Equal(t, int64(40), s.Skip())
}

func TestRegexMatchesLiterally(t *testing.T) {
	re := Regex("a.*b(")
	compiled, err := regexp.Compile("(?i)" + re.Pattern)
	require.NoError(t, err, "metacharacters must be neutralized")
	assert.True(t, compiled.MatchString("xx A.*B( yy"))
	assert.False(t, compiled.MatchString("axxb("), "no wildcard semantics leak through")
}

func TestTextOr(t *testing.T) {
	clauses := TextOr("pune", "title", "city")
	require.Len(t, clauses, 2)
	assert.Equal(t, bson.M{"title": Regex("pune")}, clauses[0])
	assert.Equal(t, bson.M{"city": Regex("pune")}, clauses[1])
}

func TestApplyRange(t *testing.T) {
	s := Spec{Filter: bson.M{}}
	s.ApplyRange("price", "1000", "5000")
	assert.Equal(t, bson.M{"$gte": float64(1000), "$lte": float64(5000)}, s.Filter["price"])

	s = Spec{Filter: bson.M{}}
	s.ApplyRange("price", "", "5000")
	assert.Equal(t, bson.M{"$lte": float64(5000)}, s.Filter["price"])

	s = Spec{Filter: bson.M{}}
	s.ApplyRange("price", "abc", "")
	assert.NotContains(t, s.Filter, "price", "unparseable bounds are absent, not zero")

	s = Spec{Filter: bson.M{}}
	s.ApplyRange("price", "Inf", "NaN")
	assert.NotContains(t, s.Filter, "price", "non-finite bounds are absent")
}

func TestApplyEnumSilentDrop(t *testing.T) {
	enum := map[string]bool{"Apartment": true, "Villa": true}

	s := Spec{Filter: bson.M{}}
	s.ApplyEnum("propertyType", "Villa", enum)
	assert.Equal(t, "Villa", s.Filter["propertyType"])

	s = Spec{Filter: bson.M{}}
	s.ApplyEnum("propertyType", "Castle", enum)
	assert.NotContains(t, s.Filter, "propertyType", "unknown enum value drops the filter")

	s = Spec{Filter: bson.M{}}
	s.ApplyEnum("propertyType", "  ", enum)
	assert.NotContains(t, s.Filter, "propertyType")
}

func TestApplyBoolVocabulary(t *testing.T) {
	for _, raw := range []string{"true", "1", "yes", "TRUE"} {
		s := Spec{Filter: bson.M{}}
		s.ApplyBool("verified", raw)
		assert.Equal(t, true, s.Filter["verified"], "raw=%q", raw)
	}
	for _, raw := range []string{"false", "0", "no"} {
		s := Spec{Filter: bson.M{}}
		s.ApplyBool("verified", raw)
		assert.Equal(t, false, s.Filter["verified"], "raw=%q", raw)
	}

	s := Spec{Filter: bson.M{}}
	s.ApplyBool("verified", "maybe")
	assert.NotContains(t, s.Filter, "verified", "junk never coerces to false")
}

func TestApplyDateRange(t *testing.T) {
	s := Spec{Filter: bson.M{}}
	s.ApplyDateRange("createdAt", "2025-03-10", "2025-03-12")

	bounds, ok := s.Filter["createdAt"].(bson.M)
	require.True(t, ok)

	from := bounds["$gte"].(time.Time)
	assert.Equal(t, 0, from.Hour())
	assert.Equal(t, 0, from.Minute())
	assert.Equal(t, 10, from.Day())

	to := bounds["$lte"].(time.Time)
	assert.Equal(t, 23, to.Hour())
	assert.Equal(t, 59, to.Second())
	assert.Equal(t, 999_000_000, to.Nanosecond())
	assert.Equal(t, 12, to.Day())
}

func TestNewSpecDefaults(t *testing.T) {
	s := NewSpec(url.Values{}, []string{"createdAt", "price"})
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, DefaultLimit, s.Limit)
	assert.Empty(t, s.Filter)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, s.Sort)
}
