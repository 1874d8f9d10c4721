package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func validPropertyInput() map[string]interface{} {
	return map[string]interface{}{
		"title":        "2 BHK in Baner",
		"propertyType": "Apartment",
		"listingType":  "Rent",
		"price":        float64(25000),
	}
}

func TestBuildPropertyPayloadCreate(t *testing.T) {
	payload, errs := buildPropertyPayload(validPropertyInput(), false)
	require.Empty(t, errs)
	assert.Equal(t, "2 BHK in Baner", payload["title"])
	assert.Equal(t, "Apartment", payload["propertyType"])
	assert.Equal(t, float64(25000), payload["price"])
}

func TestBuildPropertyPayloadCollectsAllErrors(t *testing.T) {
	input := validPropertyInput()
	delete(input, "price")
	input["propertyType"] = "Castle"

	_, errs := buildPropertyPayload(input, false)
	assert.Contains(t, errs, "propertyType is invalid")
	assert.Contains(t, errs, "price must be a valid number")
}

func TestBuildPropertyPayloadCreateMissingRequired(t *testing.T) {
	_, errs := buildPropertyPayload(map[string]interface{}{}, false)
	assert.Contains(t, errs, "title is required")
	assert.Contains(t, errs, "propertyType is invalid")
	assert.Contains(t, errs, "listingType is invalid")
	assert.Contains(t, errs, "price must be a valid number")
}

func TestBuildPropertyPayloadPartialSkipsAbsent(t *testing.T) {
	payload, errs := buildPropertyPayload(map[string]interface{}{"city": "Pune"}, true)
	require.Empty(t, errs, "partial update does not demand the create-mandatory fields")
	assert.Equal(t, bson.M{"city": "Pune"}, payload)
}

func TestBuildPropertyPayloadPartialValidatesPresent(t *testing.T) {
	_, errs := buildPropertyPayload(map[string]interface{}{"price": "free"}, true)
	assert.Contains(t, errs, "price must be a valid number")
}

func TestBuildPropertyPayloadIgnoresUnknownKeys(t *testing.T) {
	input := validPropertyInput()
	input["createdBy"] = "attacker"
	input["_id"] = "000000000000000000000000"

	payload, errs := buildPropertyPayload(input, false)
	require.Empty(t, errs)
	assert.NotContains(t, payload, "createdBy")
	assert.NotContains(t, payload, "_id")
}

func TestBuildPropertyPayloadCoordinates(t *testing.T) {
	input := validPropertyInput()
	input["coordinates"] = map[string]interface{}{"lat": 18.52, "lng": 73.85}
	payload, errs := buildPropertyPayload(input, false)
	require.Empty(t, errs)
	assert.Equal(t, bson.M{"lat": 18.52, "lng": 73.85}, payload["coordinates"])

	input["coordinates"] = map[string]interface{}{"lat": 18.52}
	_, errs = buildPropertyPayload(input, false)
	assert.Contains(t, errs, "coordinates.lat and coordinates.lng must be numbers")
}

func TestBuildPropertyPayloadNegativeNumbers(t *testing.T) {
	input := validPropertyInput()
	input["securityDeposit"] = float64(-1)
	input["area"] = float64(-50)

	_, errs := buildPropertyPayload(input, false)
	assert.Contains(t, errs, "securityDeposit must be >= 0")
	assert.Contains(t, errs, "area must be >= 0")
}

func TestBuildPropertyPayloadRejectsNonFiniteNumbers(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		input := validPropertyInput()
		input["price"] = raw

		payload, errs := buildPropertyPayload(input, false)
		assert.Contains(t, errs, "price must be a valid number", "price=%q", raw)
		assert.NotContains(t, payload, "price")
	}

	input := validPropertyInput()
	input["securityDeposit"] = "Inf"
	payload, errs := buildPropertyPayload(input, false)
	require.Empty(t, errs)
	assert.NotContains(t, payload, "securityDeposit", "non-finite optional field reads as absent")
}

func TestBuildPropertyPayloadNumericStrings(t *testing.T) {
	input := validPropertyInput()
	input["price"] = "32000"
	input["bedrooms"] = "3"

	payload, errs := buildPropertyPayload(input, false)
	require.Empty(t, errs)
	assert.Equal(t, float64(32000), payload["price"])
	assert.Equal(t, float64(3), payload["bedrooms"])
}

func TestBuildPropertyPayloadAmenities(t *testing.T) {
	input := validPropertyInput()
	input["amenities"] = []interface{}{"Lift", " Parking ", ""}

	payload, errs := buildPropertyPayload(input, false)
	require.Empty(t, errs)
	assert.Equal(t, []string{"Lift", "Parking"}, payload["amenities"])
}

func TestBuildPropertyPayloadBoolFields(t *testing.T) {
	input := validPropertyInput()
	input["verified"] = true
	input["isFeatured"] = "yes"

	payload, errs := buildPropertyPayload(input, false)
	require.Empty(t, errs)
	assert.Equal(t, true, payload["verified"])
	assert.NotContains(t, payload, "isFeatured", "non-bool values read as absent")
}
