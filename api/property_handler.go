package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/himashiprops/estate-backend/models"
	"github.com/himashiprops/estate-backend/search"
	"github.com/himashiprops/estate-backend/utils"
)

// propertyTextFields is the field set the free-text q parameter matches on.
var propertyTextFields = []string{"title", "description", "address", "city", "state", "pincode", "ownerName"}

var propertySortFields = []string{"createdAt", "price", "area", "views"}

// ListPropertiesHandler returns all properties, newest first.
func ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[List Properties API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection := utils.GetCollection("properties")
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, properties)
}

// SearchPropertiesHandler translates the caller's raw query parameters into
// a bounded filter/sort/pagination spec and returns the matching page.
func SearchPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Search Properties API]")

	values := r.URL.Query()
	spec := search.NewSpec(values, propertySortFields)

	if q := search.CleanString(values.Get("q")); q != "" {
		spec.Filter["$or"] = search.TextOr(q, propertyTextFields...)
	}

	spec.ApplyEquals("city", values.Get("city"))
	spec.ApplyEquals("state", values.Get("state"))
	spec.ApplyEquals("pincode", values.Get("pincode"))
	spec.ApplyEquals("facing", values.Get("facing"))

	// Unrecognized enum values are dropped, not errors.
	spec.ApplyEnum("propertyType", values.Get("propertyType"), models.PropertyTypes)
	spec.ApplyEnum("listingType", values.Get("listingType"), models.ListingTypes)
	spec.ApplyEnum("status", values.Get("status"), models.PropertyStatuses)
	spec.ApplyEnum("furnishedStatus", values.Get("furnishedStatus"), models.FurnishedStatuses)
	spec.ApplyEnum("listedBy", values.Get("listedBy"), models.ListedByValues)

	spec.ApplyBool("verified", values.Get("verified"))
	spec.ApplyBool("isFeatured", values.Get("isFeatured"))

	spec.ApplyRange("price", values.Get("minPrice"), values.Get("maxPrice"))
	spec.ApplyRange("area", values.Get("minArea"), values.Get("maxArea"))
	spec.ApplyMin("bedrooms", values.Get("minBedrooms"))
	spec.ApplyMin("bathrooms", values.Get("minBathrooms"))

	if amenities := search.SplitCSV(values.Get("amenities")); len(amenities) > 0 {
		spec.Filter["amenities"] = bson.M{"$all": amenities}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection := utils.GetCollection("properties")
	total, err := collection.CountDocuments(ctx, spec.Filter)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	cursor, err := collection.Find(ctx, spec.Filter, spec.FindOptions())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	items := []models.Property{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Matched %d properties", total))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"meta":  search.NewMeta(total, spec.Page, spec.Limit),
	})
}

// GetPropertyHandler returns one property by id. A malformed id is a 400,
// never a 404.
func GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Property API]")

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid property id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var property models.Property
	err = utils.GetCollection("properties").FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Property not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, property)
}

// CreatePropertyHandler creates a property from a validated payload. Admin
// only; createdBy comes from the session claims, never from the body.
func CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Property API]")

	var input map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload, errs := buildPropertyPayload(input, false)
	if len(errs) > 0 {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid property payload", errs, http.StatusBadRequest)
		return
	}

	now := time.Now()
	payload["createdAt"] = now
	payload["updatedAt"] = now
	if _, ok := payload["status"]; !ok {
		payload["status"] = "Available"
	}
	if _, ok := payload["country"]; !ok {
		payload["country"] = "India"
	}
	if _, ok := payload["verified"]; !ok {
		payload["verified"] = false
	}
	if _, ok := payload["isFeatured"]; !ok {
		payload["isFeatured"] = false
	}
	if _, ok := payload["views"]; !ok {
		payload["views"] = int64(0)
	}

	if claims, ok := ClaimsFromContext(r.Context()); ok && claims.UserID != "" {
		if creatorID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			payload["createdBy"] = creatorID
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection := utils.GetCollection("properties")
	res, err := collection.InsertOne(ctx, payload)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create property", http.StatusInternalServerError)
		return
	}

	var property models.Property
	if err := collection.FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&property); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Property created")
	utils.RespondJSON(w, http.StatusCreated, property)
}

// UpdatePropertyHandler applies a validated partial update. An update that
// yields no valid fields is a 400, not a silent no-op.
func UpdatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Property API]")

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid property id", http.StatusBadRequest)
		return
	}

	var input map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload, errs := buildPropertyPayload(input, true)
	if len(errs) > 0 {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid property payload", errs, http.StatusBadRequest)
		return
	}
	if len(payload) == 0 {
		utils.RespondError(w, &logMessageBuilder, "No valid fields to update", http.StatusBadRequest)
		return
	}
	payload["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var property models.Property
	err = utils.GetCollection("properties").FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": payload},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&property)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Property not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Property updated")
	utils.RespondJSON(w, http.StatusOK, property)
}

// DeletePropertyHandler removes a property by id.
func DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Property API]")

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid property id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var property models.Property
	err = utils.GetCollection("properties").FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Property not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Property deleted")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Property deleted"})
}
