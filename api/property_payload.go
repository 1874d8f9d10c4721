package api

import (
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/himashiprops/estate-backend/models"
)

// propertyPayloadFields is the fixed allow-list for property create/update
// input. Keys outside it are ignored entirely, which keeps callers from
// injecting fields like createdBy.
var propertyPayloadFields = []string{
	"title", "description", "propertyType", "listingType", "status",
	"price", "securityDeposit", "maintenanceCharge",
	"address", "city", "state", "pincode", "country", "coordinates",
	"area", "bedrooms", "bathrooms", "balconies", "floor", "totalFloors",
	"facing", "furnishedStatus", "ageOfProperty",
	"amenities", "images", "videoUrl", "ownerName", "ownerContact",
	"listedBy", "verified", "documents", "views", "isFeatured",
}

// cleanStringValue coerces a raw JSON value to a trimmed string; anything
// that is not a non-empty string reads as absent.
func cleanStringValue(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// cleanNumberValue coerces a raw JSON value (number or numeric string) to a
// finite float. Unparseable values read as absent, never as zero.
func cleanNumberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// cleanStringSlice coerces a raw JSON value to a slice of trimmed strings,
// dropping empty tokens. A single string reads as a one-element slice.
func cleanStringSlice(v interface{}) ([]string, bool) {
	switch val := v.(type) {
	case []interface{}:
		out := []string{}
		for _, item := range val {
			if s := cleanStringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}, true
		}
		return []string{}, true
	}
	return nil, false
}

// buildPropertyPayload whitelists and validates raw property input. In
// create mode title, propertyType, listingType and price are mandatory; in
// partial mode they are validated only when present. Every failed check is
// collected, so the caller gets all messages in one response.
func buildPropertyPayload(input map[string]interface{}, partial bool) (bson.M, []string) {
	raw := map[string]interface{}{}
	for _, key := range propertyPayloadFields {
		if v, ok := input[key]; ok {
			raw[key] = v
		}
	}

	payload := bson.M{}
	var errs []string
	has := func(key string) bool { _, ok := raw[key]; return ok }

	if !partial || has("title") {
		if title := cleanStringValue(raw["title"]); title == "" {
			errs = append(errs, "title is required")
		} else {
			payload["title"] = title
		}
	}

	if description := cleanStringValue(raw["description"]); description != "" {
		payload["description"] = description
	}

	if !partial || has("propertyType") {
		if propertyType := cleanStringValue(raw["propertyType"]); propertyType == "" || !models.PropertyTypes[propertyType] {
			errs = append(errs, "propertyType is invalid")
		} else {
			payload["propertyType"] = propertyType
		}
	}

	if !partial || has("listingType") {
		if listingType := cleanStringValue(raw["listingType"]); listingType == "" || !models.ListingTypes[listingType] {
			errs = append(errs, "listingType is invalid")
		} else {
			payload["listingType"] = listingType
		}
	}

	if status := cleanStringValue(raw["status"]); status != "" {
		if !models.PropertyStatuses[status] {
			errs = append(errs, "status is invalid")
		} else {
			payload["status"] = status
		}
	}

	if !partial || has("price") {
		if price, ok := cleanNumberValue(raw["price"]); !ok || price < 0 {
			errs = append(errs, "price must be a valid number")
		} else {
			payload["price"] = price
		}
	}

	if deposit, ok := cleanNumberValue(raw["securityDeposit"]); ok {
		if deposit < 0 {
			errs = append(errs, "securityDeposit must be >= 0")
		} else {
			payload["securityDeposit"] = deposit
		}
	}

	if charge, ok := cleanNumberValue(raw["maintenanceCharge"]); ok {
		if charge < 0 {
			errs = append(errs, "maintenanceCharge must be >= 0")
		} else {
			payload["maintenanceCharge"] = charge
		}
	}

	for _, key := range []string{"address", "city", "state", "pincode", "country", "facing", "videoUrl", "ownerName", "ownerContact"} {
		if s := cleanStringValue(raw[key]); s != "" {
			payload[key] = s
		}
	}

	// coordinates is all-or-nothing: present means both lat and lng must
	// parse, or the whole field fails.
	if has("coordinates") {
		coords, _ := raw["coordinates"].(map[string]interface{})
		lat, latOK := cleanNumberValue(coords["lat"])
		lng, lngOK := cleanNumberValue(coords["lng"])
		if !latOK || !lngOK {
			errs = append(errs, "coordinates.lat and coordinates.lng must be numbers")
		} else {
			payload["coordinates"] = bson.M{"lat": lat, "lng": lng}
		}
	}

	if area, ok := cleanNumberValue(raw["area"]); ok {
		if area < 0 {
			errs = append(errs, "area must be >= 0")
		} else {
			payload["area"] = area
		}
	}

	for _, key := range []string{"bedrooms", "bathrooms", "balconies", "floor", "totalFloors"} {
		if n, ok := cleanNumberValue(raw[key]); ok {
			payload[key] = n
		}
	}

	if furnished := cleanStringValue(raw["furnishedStatus"]); furnished != "" {
		if !models.FurnishedStatuses[furnished] {
			errs = append(errs, "furnishedStatus is invalid")
		} else {
			payload["furnishedStatus"] = furnished
		}
	}

	if age, ok := cleanNumberValue(raw["ageOfProperty"]); ok {
		if age < 0 {
			errs = append(errs, "ageOfProperty must be >= 0")
		} else {
			payload["ageOfProperty"] = age
		}
	}

	for _, key := range []string{"amenities", "images", "documents"} {
		if list, ok := cleanStringSlice(raw[key]); ok {
			payload[key] = list
		}
	}

	if listedBy := cleanStringValue(raw["listedBy"]); listedBy != "" {
		if !models.ListedByValues[listedBy] {
			errs = append(errs, "listedBy is invalid")
		} else {
			payload["listedBy"] = listedBy
		}
	}

	if v, ok := raw["verified"].(bool); ok {
		payload["verified"] = v
	}
	if v, ok := raw["isFeatured"].(bool); ok {
		payload["isFeatured"] = v
	}

	if views, ok := cleanNumberValue(raw["views"]); ok {
		if views < 0 {
			errs = append(errs, "views must be >= 0")
		} else {
			payload["views"] = int64(views)
		}
	}

	return payload, errs
}
