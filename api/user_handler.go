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

var userSortFields = []string{"createdAt", "name", "email"}

// ListAllUsersHandler lists every user, newest first. Admin only.
func ListAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[List All Users API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := utils.GetCollection("users").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, users)
}

// SearchAllUsersHandler filters users by text, verification/block flags and
// signup date window. Admin only.
func SearchAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Search All Users API]")

	values := r.URL.Query()
	spec := search.NewSpec(values, userSortFields)

	if q := search.CleanString(values.Get("q")); q != "" {
		spec.Filter["$or"] = search.TextOr(q, "name", "email", "phone")
	}

	spec.ApplyBool("isVerified", values.Get("isVerified"))
	spec.ApplyBool("isBlocked", values.Get("isBlocked"))
	spec.ApplyDateRange("createdAt", values.Get("from"), values.Get("to"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection := utils.GetCollection("users")
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

	items := []models.User{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"meta":  search.NewMeta(total, spec.Page, spec.Limit),
	})
}

// SetUserBlockedHandler blocks or unblocks a user account. A blocked
// account can no longer log in, regardless of credential correctness.
func SetUserBlockedHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Set User Blocked API]")

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req struct {
		Blocked *bool `json:"blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Blocked == nil {
		utils.RespondError(w, &logMessageBuilder, "blocked is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err = utils.GetCollection("users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isBlocked": *req.Blocked, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("User %s blocked=%v", user.Email, *req.Blocked))
	utils.RespondJSON(w, http.StatusOK, user)
}
