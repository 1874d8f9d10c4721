// Package search translates untrusted query parameters into bounded, safe
// filter/sort/pagination specifications for the listing endpoints.
package search

import (
	"math"
	"net/url"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Spec is a validated filter+sort+pagination specification.
type Spec struct {
	Filter bson.M
	Sort   bson.D
	Page   int
	Limit  int
}

// Meta is the pagination envelope echoed with every list response. A caller
// can reconstruct the next page request from it alone.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// NewSpec builds a Spec from raw parameters with an empty filter. sortBy is
// accepted only if it is in allowedSortFields; anything else falls back to
// createdAt descending. sortOrder "asc" sorts ascending, everything else
// descending. Page and limit are clamped.
func NewSpec(values url.Values, allowedSortFields []string) Spec {
	return Spec{
		Filter: bson.M{},
		Sort:   SortFields(values, allowedSortFields),
		Page:   ParsePage(values.Get("page")),
		Limit:  ParseLimit(values.Get("limit")),
	}
}

// ParsePage clamps the page parameter to a minimum of 1.
func ParsePage(value string) int {
	n, ok := ParseNumber(value)
	if !ok || n < 1 {
		return 1
	}
	return int(n)
}

// ParseLimit clamps the limit parameter to [1, MaxLimit], defaulting to
// DefaultLimit when absent or unparseable.
func ParseLimit(value string) int {
	n, ok := ParseNumber(value)
	if !ok {
		return DefaultLimit
	}
	if n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return int(n)
}

// SortFields resolves the caller-supplied sortBy/sortOrder pair against an
// allow-list. createdAt descending is appended as the final tie-break so
// pagination stays stable across calls.
func SortFields(values url.Values, allowed []string) bson.D {
	sortBy := CleanString(values.Get("sortBy"))
	order := -1
	if CleanString(values.Get("sortOrder")) == "asc" {
		order = 1
	}
	for _, field := range allowed {
		if field == sortBy {
			if field == "createdAt" {
				return bson.D{{Key: "createdAt", Value: order}}
			}
			return bson.D{{Key: field, Value: order}, {Key: "createdAt", Value: -1}}
		}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}

// Skip is the number of documents to skip for the current page.
func (s Spec) Skip() int64 {
	return int64(s.Page-1) * int64(s.Limit)
}

// FindOptions maps the Spec's sort and pagination onto mongo find options.
func (s Spec) FindOptions() *options.FindOptions {
	return options.Find().SetSort(s.Sort).SetSkip(s.Skip()).SetLimit(int64(s.Limit))
}

// NewMeta computes the response envelope; pages is never below 1 so an empty
// result still reads as a single empty page.
func NewMeta(total int64, page, limit int) Meta {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}
	return Meta{Total: total, Page: page, Pages: pages, Limit: limit}
}

// Regex builds a case-insensitive literal substring matcher. All regex
// metacharacters in q are neutralized first.
func Regex(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
}

// TextOr builds the $or clause matching q as a literal, case-insensitive
// substring across the entity's text fields.
func TextOr(q string, fields ...string) bson.A {
	re := Regex(q)
	clauses := make(bson.A, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, bson.M{f: re})
	}
	return clauses
}

// ApplyRange adds an inclusive numeric bound on field for whichever of
// min/max parsed. Absent bounds are omitted entirely.
func (s Spec) ApplyRange(field, minValue, maxValue string) {
	bounds := bson.M{}
	if n, ok := ParseNumber(minValue); ok {
		bounds["$gte"] = n
	}
	if n, ok := ParseNumber(maxValue); ok {
		bounds["$lte"] = n
	}
	if len(bounds) > 0 {
		s.Filter[field] = bounds
	}
}

// ApplyMin adds an inclusive lower bound on field if the value parses.
func (s Spec) ApplyMin(field, value string) {
	if n, ok := ParseNumber(value); ok {
		s.Filter[field] = bson.M{"$gte": n}
	}
}

// ApplyDateRange adds an inclusive two-sided day bound on field from the
// from/to parameters: from is widened to local 00:00:00.000 and to to local
// 23:59:59.999. Unparseable dates are treated as absent.
func (s Spec) ApplyDateRange(field, fromValue, toValue string) {
	bounds := bson.M{}
	if t, ok := ParseDate(fromValue); ok {
		bounds["$gte"] = StartOfDay(t)
	}
	if t, ok := ParseDate(toValue); ok {
		bounds["$lte"] = EndOfDay(t)
	}
	if len(bounds) > 0 {
		s.Filter[field] = bounds
	}
}

// ApplyEnum adds an equality filter only when the value is a member of the
// field's enum; unrecognized values are silently dropped.
func (s Spec) ApplyEnum(field, value string, enum map[string]bool) {
	v := CleanString(value)
	if v != "" && enum[v] {
		s.Filter[field] = v
	}
}

// ApplyEquals adds an equality filter for a free-form field when non-empty.
func (s Spec) ApplyEquals(field, value string) {
	if v := CleanString(value); v != "" {
		s.Filter[field] = v
	}
}

// ApplyBool adds a boolean filter when the value is in the recognized
// vocabulary.
func (s Spec) ApplyBool(field, value string) {
	if b, ok := ParseBool(value); ok {
		s.Filter[field] = b
	}
}
