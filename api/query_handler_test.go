package api

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/himashiprops/estate-backend/models"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", normalizeEmail("  A@B.COM "))
	assert.Equal(t, "", normalizeEmail("   "))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", normalizePhone("+91 98765 43210"))
	assert.Equal(t, "9876543210", normalizePhone("(987) 654-3210"))
	assert.Equal(t, "", normalizePhone("abc"))
}

func TestRatingMatchesText(t *testing.T) {
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta("pune"))

	item := populatedRating{Comment: "Great flat in PUNE"}
	assert.True(t, ratingMatchesText(item, re))

	item = populatedRating{
		Comment:  "nice",
		Property: &models.PropertySummary{Title: "2 BHK", City: "Pune"},
	}
	assert.True(t, ratingMatchesText(item, re))

	item = populatedRating{
		Comment: "nice",
		User:    &models.UserSummary{Name: "Arjun", Email: "arjun@pune-mail.com"},
	}
	assert.True(t, ratingMatchesText(item, re))

	item = populatedRating{Comment: "nice", Property: &models.PropertySummary{City: "Mumbai"}}
	assert.False(t, ratingMatchesText(item, re))
}
