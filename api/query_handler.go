package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
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

var phoneCleaner = regexp.MustCompile(`[^\d+]`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone string) string {
	return phoneCleaner.ReplaceAllString(strings.TrimSpace(phone), "")
}

// populatedQuery is a PropertyQuery with its references resolved to
// summaries for serving.
type populatedQuery struct {
	ID        primitive.ObjectID `json:"id"`
	Property  interface{}        `json:"property"`
	User      interface{}        `json:"user,omitempty"`
	Name      string             `json:"name,omitempty"`
	Email     string             `json:"email,omitempty"`
	Phone     string             `json:"phone,omitempty"`
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// populateQueries resolves the property reference of each query, and the
// user reference too when withUser is set (admin views only).
func populateQueries(ctx context.Context, items []models.PropertyQuery, withUser bool) ([]populatedQuery, error) {
	propertyIDs := make([]primitive.ObjectID, 0, len(items))
	userIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		propertyIDs = append(propertyIDs, item.Property)
		userIDs = append(userIDs, item.User)
	}

	properties, err := fetchPropertySummaries(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}
	users := map[primitive.ObjectID]*models.UserSummary{}
	if withUser {
		if users, err = fetchUserSummaries(ctx, userIDs); err != nil {
			return nil, err
		}
	}

	out := make([]populatedQuery, 0, len(items))
	for _, item := range items {
		q := populatedQuery{
			ID:        item.ID,
			Property:  item.Property,
			Name:      item.Name,
			Email:     item.Email,
			Phone:     item.Phone,
			Message:   item.Message,
			Status:    item.Status,
			Notes:     item.Notes,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
		if p, ok := properties[item.Property]; ok {
			q.Property = p
		}
		if withUser {
			q.User = item.User
			if u, ok := users[item.User]; ok {
				q.User = u
			}
		}
		out = append(out, q)
	}
	return out, nil
}

// CreatePropertyQueryHandler records a buyer inquiry for a property. The
// contact fields are snapshotted from the body, falling back to the user
// record.
func CreatePropertyQueryHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Property Query API]")

	propertyID, err := primitive.ObjectIDFromHex(r.PathValue("propertyId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid property id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		utils.RespondError(w, &logMessageBuilder, "Message is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := utils.GetCollection("properties").CountDocuments(ctx, bson.M{"_id": propertyID})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if count == 0 {
		utils.RespondError(w, &logMessageBuilder, "Property not found", http.StatusNotFound)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok || claims.UserID == "" {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := utils.GetCollection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = user.Name
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		email = user.Email
	}
	phone := normalizePhone(req.Phone)
	if phone == "" {
		phone = user.Phone
	}

	now := time.Now()
	query := models.PropertyQuery{
		Property:  propertyID,
		User:      userID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		Status:    "New",
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := utils.GetCollection("queries").InsertOne(ctx, query)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create query", http.StatusInternalServerError)
		return
	}
	query.ID = res.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, "Query created")
	utils.RespondJSON(w, http.StatusCreated, query)
}

// ListPropertyQueriesHandler lists the inquiries for one property. Admins
// see all of them with user references resolved; users only see their own.
func ListPropertyQueriesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[List Property Queries API]")

	propertyID, err := primitive.ObjectIDFromHex(r.PathValue("propertyId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid property id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := utils.GetCollection("properties").CountDocuments(ctx, bson.M{"_id": propertyID})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if count == 0 {
		utils.RespondError(w, &logMessageBuilder, "Property not found", http.StatusNotFound)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"property": propertyID}
	isAdmin := claims.Role == "admin"
	if !isAdmin {
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
			return
		}
		filter["user"] = userID
	}

	cursor, err := utils.GetCollection("queries").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	items := []models.PropertyQuery{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	populated, err := populateQueries(ctx, items, isAdmin)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, populated)
}

// ListAllQueriesHandler lists every inquiry, newest first. Admin only.
func ListAllQueriesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[List All Queries API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := utils.GetCollection("queries").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	items := []models.PropertyQuery{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	populated, err := populateQueries(ctx, items, true)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, populated)
}

// SearchAllQueriesHandler filters inquiries by text, status, references and
// date window. Invalid status or malformed ids are hard 400s.
func SearchAllQueriesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Search All Queries API]")

	values := r.URL.Query()
	spec := search.NewSpec(values, []string{"createdAt"})

	if q := search.CleanString(values.Get("q")); q != "" {
		spec.Filter["$or"] = search.TextOr(q, "name", "email", "phone", "message", "notes")
	}

	if status := search.CleanString(values.Get("status")); status != "" {
		if !models.QueryStatuses[status] {
			utils.RespondError(w, &logMessageBuilder, "Invalid status", http.StatusBadRequest)
			return
		}
		spec.Filter["status"] = status
	}

	if propertyID := search.CleanString(values.Get("propertyId")); propertyID != "" {
		id, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Invalid propertyId", http.StatusBadRequest)
			return
		}
		spec.Filter["property"] = id
	}

	if userID := search.CleanString(values.Get("userId")); userID != "" {
		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Invalid userId", http.StatusBadRequest)
			return
		}
		spec.Filter["user"] = id
	}

	spec.ApplyDateRange("createdAt", values.Get("from"), values.Get("to"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection := utils.GetCollection("queries")
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

	items := []models.PropertyQuery{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	populated, err := populateQueries(ctx, items, true)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": populated,
		"meta":  search.NewMeta(total, spec.Page, spec.Limit),
	})
}

// UpdateQueryHandler lets an admin move an inquiry through its status
// lifecycle and attach notes.
func UpdateQueryHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Query API]")

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid query id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	update := bson.M{}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if !models.QueryStatuses[status] {
			utils.RespondError(w, &logMessageBuilder, "Invalid status", http.StatusBadRequest)
			return
		}
		update["status"] = status
	}
	if req.Notes != nil {
		update["notes"] = strings.TrimSpace(*req.Notes)
	}
	if len(update) == 0 {
		utils.RespondError(w, &logMessageBuilder, "No valid fields to update", http.StatusBadRequest)
		return
	}
	update["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var query models.PropertyQuery
	err = utils.GetCollection("queries").FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&query)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Query not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Query updated")
	utils.RespondJSON(w, http.StatusOK, query)
}
