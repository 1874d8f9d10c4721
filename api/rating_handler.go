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

	"github.com/himashiprops/estate-backend/config"
	"github.com/himashiprops/estate-backend/models"
	"github.com/himashiprops/estate-backend/search"
	"github.com/himashiprops/estate-backend/utils"
)

// populatedRating is a Rating with its references resolved to summaries.
type populatedRating struct {
	ID        primitive.ObjectID `json:"id"`
	Property  interface{}        `json:"property"`
	User      interface{}        `json:"user"`
	Stars     int                `json:"stars"`
	Comment   string             `json:"comment,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func populateRatings(ctx context.Context, items []models.Rating) ([]populatedRating, error) {
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
	users, err := fetchUserSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]populatedRating, 0, len(items))
	for _, item := range items {
		rating := populatedRating{
			ID:        item.ID,
			Property:  item.Property,
			User:      item.User,
			Stars:     item.Stars,
			Comment:   item.Comment,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
		if p, ok := properties[item.Property]; ok {
			rating.Property = p
		}
		if u, ok := users[item.User]; ok {
			rating.User = u
		}
		out = append(out, rating)
	}
	return out, nil
}

// CreatePropertyRatingHandler records a star rating. One rating per
// (property, user) pair: a re-submission updates the existing record and
// responds 200 instead of 201. An admin notification email is attempted but
// never fails the request.
func CreatePropertyRatingHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Property Rating API]")

	propertyID, err := primitive.ObjectIDFromHex(r.PathValue("propertyId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid property id", http.StatusBadRequest)
		return
	}

	var input map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	stars, ok := cleanNumberValue(input["stars"])
	if !ok || stars != float64(int(stars)) || stars < 1 || stars > 5 {
		utils.RespondError(w, &logMessageBuilder, "Stars must be between 1 and 5", http.StatusBadRequest)
		return
	}
	comment := cleanStringValue(input["comment"])

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

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var property models.PropertySummary
	err = utils.GetCollection("properties").FindOne(ctx, bson.M{"_id": propertyID},
		options.FindOne().SetProjection(bson.M{
			"title": 1, "propertyType": 1, "listingType": 1, "price": 1, "city": 1, "state": 1,
		})).Decode(&property)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Property not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	var user models.UserSummary
	err = utils.GetCollection("users").FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1})).Decode(&user)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collection := utils.GetCollection("ratings")
	now := time.Now()

	var rating models.Rating
	err = collection.FindOne(ctx, bson.M{"property": propertyID, "user": userID}).Decode(&rating)
	isUpdate := err == nil
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	if isUpdate {
		err = collection.FindOneAndUpdate(
			ctx,
			bson.M{"_id": rating.ID},
			bson.M{"$set": bson.M{"stars": int(stars), "comment": comment, "updatedAt": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&rating)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
			return
		}
	} else {
		rating = models.Rating{
			Property:  propertyID,
			User:      userID,
			Stars:     int(stars),
			Comment:   comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		res, err := collection.InsertOne(ctx, rating)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Failed to create rating", http.StatusInternalServerError)
			return
		}
		rating.ID = res.InsertedID.(primitive.ObjectID)
	}

	sendAdminRatingEmail(rating, property, user, isUpdate, &logMessageBuilder)

	status := http.StatusCreated
	if isUpdate {
		status = http.StatusOK
	}
	utils.RespondJSON(w, status, rating)
}

// sendAdminRatingEmail notifies the admin of a new or updated rating.
// Best-effort: failures are logged and swallowed.
func sendAdminRatingEmail(rating models.Rating, property models.PropertySummary, user models.UserSummary, isUpdate bool, logger *strings.Builder) {
	to := strings.TrimSpace(config.AdminEmail)
	if to == "" {
		return
	}

	subject := "New rating received"
	if isUpdate {
		subject = "Rating updated"
	}
	comment := rating.Comment
	if comment == "" {
		comment = "-"
	}

	text := fmt.Sprintf("%s\n\nProperty: %s (%s)\nUser: %s (%s)\nStars: %d / 5\nComment: %s\nTime: %s",
		subject, property.Title, property.ID.Hex(), user.Name, user.Email, rating.Stars, comment,
		rating.UpdatedAt.Format(time.RFC3339))
	html := fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; line-height: 1.4;">
      <h2 style="margin: 0 0 12px 0;">%s</h2>
      <p>Property: <strong>%s</strong> (%s)</p>
      <p>User: %s (%s)</p>
      <p>Stars: <strong>%d / 5</strong></p>
      <p>Comment: %s</p>
    </div>`, subject, property.Title, property.ID.Hex(), user.Name, user.Email, rating.Stars, comment)

	if _, err := utils.SendEmail("Admin", to, subject, text, html); err != nil {
		utils.AddToLogMessage(logger, fmt.Sprintf("Failed to send rating email: %v", err))
	}
}

// ListAllRatingsHandler lists every rating, newest first. Admin only.
func ListAllRatingsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[List All Ratings API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := utils.GetCollection("ratings").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	items := []models.Rating{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	populated, err := populateRatings(ctx, items)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, populated)
}

// SearchAllRatingsHandler filters ratings by stars, references and date
// window at the storage layer. The free-text q parameter is applied to the
// fetched page after the references are resolved, since stars and comment
// alone are not enough to match against; the meta envelope therefore keeps
// the pre-text-filter total.
func SearchAllRatingsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Search All Ratings API]")

	values := r.URL.Query()
	spec := search.NewSpec(values, []string{"createdAt"})

	if starsParam := search.CleanString(values.Get("stars")); starsParam != "" {
		if stars, ok := search.ParseNumber(starsParam); ok {
			if stars != float64(int(stars)) || stars < 1 || stars > 5 {
				utils.RespondError(w, &logMessageBuilder, "Invalid stars", http.StatusBadRequest)
				return
			}
			spec.Filter["stars"] = int(stars)
		}
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

	collection := utils.GetCollection("ratings")
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

	items := []models.Rating{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	populated, err := populateRatings(ctx, items)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	if q := search.CleanString(values.Get("q")); q != "" {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
		filtered := make([]populatedRating, 0, len(populated))
		for _, item := range populated {
			if ratingMatchesText(item, re) {
				filtered = append(filtered, item)
			}
		}
		populated = filtered
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": populated,
		"meta":  search.NewMeta(total, spec.Page, spec.Limit),
	})
}

func ratingMatchesText(item populatedRating, re *regexp.Regexp) bool {
	if re.MatchString(item.Comment) {
		return true
	}
	if u, ok := item.User.(*models.UserSummary); ok {
		if re.MatchString(u.Name) || re.MatchString(u.Email) || re.MatchString(u.Phone) {
			return true
		}
	}
	if p, ok := item.Property.(*models.PropertySummary); ok {
		if re.MatchString(p.Title) || re.MatchString(p.City) || re.MatchString(p.State) {
			return true
		}
	}
	return false
}

// GetRatingHandler returns one rating by id with references resolved.
func GetRatingHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Rating API]")

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid rating id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var rating models.Rating
	err = utils.GetCollection("ratings").FindOne(ctx, bson.M{"_id": id}).Decode(&rating)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Rating not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	populated, err := populateRatings(ctx, []models.Rating{rating})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, populated[0])
}
