package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchAllRatingsRejectsInvalidStars(t *testing.T) {
	for _, raw := range []string{"4.5", "0", "6", "-1", "2.000001"} {
		req := httptest.NewRequest(http.MethodGet, "/api/ratings/search?stars="+raw, nil)
		rec := httptest.NewRecorder()

		SearchAllRatingsHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "stars=%q", raw)
		assert.Contains(t, rec.Body.String(), "Invalid stars", "stars=%q", raw)
	}
}

func TestSearchAllRatingsRejectsMalformedIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ratings/search?propertyId=not-hex", nil)
	rec := httptest.NewRecorder()
	SearchAllRatingsHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/ratings/search?userId=not-hex", nil)
	rec = httptest.NewRecorder()
	SearchAllRatingsHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
