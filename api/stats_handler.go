package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/himashiprops/estate-backend/search"
	"github.com/himashiprops/estate-backend/utils"
)

type labelCount struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type timelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type statsResponse struct {
	Range struct {
		Days int       `json:"days"`
		From time.Time `json:"from"`
		To   time.Time `json:"to"`
	} `json:"range"`
	Totals struct {
		Users              int64 `json:"users"`
		VerifiedUsers      int64 `json:"verifiedUsers"`
		NewUsersRange      int64 `json:"newUsersRange"`
		Properties         int64 `json:"properties"`
		VerifiedProperties int64 `json:"verifiedProperties"`
		FeaturedProperties int64 `json:"featuredProperties"`
		Queries            int64 `json:"queries"`
		Emails             int64 `json:"emails"`
	} `json:"totals"`
	Properties struct {
		ByType        []labelCount `json:"byType"`
		ByListingType []labelCount `json:"byListingType"`
		ByStatus      []labelCount `json:"byStatus"`
		TopCities     []labelCount `json:"topCities"`
	} `json:"properties"`
	Queries struct {
		ByStatus       []labelCount    `json:"byStatus"`
		Timeline       []timelinePoint `json:"timeline"`
		ByPropertyType []labelCount    `json:"byPropertyType"`
	} `json:"queries"`
}

// clampDays bounds the dashboard window to [7, 90] days, defaulting to 30.
func clampDays(raw string) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		days = 30
	}
	if days < 7 {
		days = 7
	}
	if days > 90 {
		days = 90
	}
	return days
}

// buildTimeline zero-fills a dense per-day series over the window: every day
// appears in chronological order even with no activity.
func buildTimeline(from time.Time, days int, counts map[string]int64) []timelinePoint {
	timeline := make([]timelinePoint, 0, days)
	for i := 0; i < days; i++ {
		label := from.AddDate(0, 0, i).Format("2006-01-02")
		timeline = append(timeline, timelinePoint{Date: label, Count: counts[label]})
	}
	return timeline
}

// groupCount runs a count-per-value aggregation over field, most frequent
// first. Missing or empty group keys render as "Unknown".
func groupCount(ctx context.Context, collection string, field string, extra ...bson.D) ([]labelCount, error) {
	pipeline := []bson.D{}
	pipeline = append(pipeline, extra...)
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	)

	cursor, err := utils.GetCollection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID    interface{} `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]labelCount, 0, len(rows))
	for _, row := range rows {
		label, _ := row.ID.(string)
		if label == "" {
			label = "Unknown"
		}
		out = append(out, labelCount{Label: label, Value: row.Count})
	}
	return out, nil
}

// WebsiteStatsHandler composes the admin dashboard: totals, grouped property
// and inquiry breakdowns, and a dense daily inquiry timeline for the
// requested window.
func WebsiteStatsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Website Stats API]")

	now := time.Now()
	days := clampDays(r.URL.Query().Get("days"))
	fromDate := search.StartOfDay(now.AddDate(0, 0, -(days - 1)))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var resp statsResponse
	resp.Range.Days = days
	resp.Range.From = fromDate
	resp.Range.To = now

	counts := []struct {
		dst  *int64
		coll string
		f    bson.M
	}{
		{&resp.Totals.Users, "users", bson.M{}},
		{&resp.Totals.VerifiedUsers, "users", bson.M{"isVerified": true}},
		{&resp.Totals.NewUsersRange, "users", bson.M{"createdAt": bson.M{"$gte": fromDate}}},
		{&resp.Totals.Properties, "properties", bson.M{}},
		{&resp.Totals.VerifiedProperties, "properties", bson.M{"verified": true}},
		{&resp.Totals.FeaturedProperties, "properties", bson.M{"isFeatured": true}},
		{&resp.Totals.Queries, "queries", bson.M{}},
		{&resp.Totals.Emails, "email_logs", bson.M{}},
	}
	for _, c := range counts {
		n, err := utils.GetCollection(c.coll).CountDocuments(ctx, c.f)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
			return
		}
		*c.dst = n
	}

	var err error
	if resp.Properties.ByType, err = groupCount(ctx, "properties", "propertyType"); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if resp.Properties.ByListingType, err = groupCount(ctx, "properties", "listingType"); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if resp.Properties.ByStatus, err = groupCount(ctx, "properties", "status"); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	topCities, err := topCityCounts(ctx)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	resp.Properties.TopCities = topCities

	if resp.Queries.ByStatus, err = groupCount(ctx, "queries", "status"); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	perDay, err := queriesPerDay(ctx, fromDate)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	resp.Queries.Timeline = buildTimeline(fromDate, days, perDay)

	byPropertyType, err := queriesByPropertyType(ctx, fromDate)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	resp.Queries.ByPropertyType = byPropertyType

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Stats composed for %d days", days))
	utils.RespondJSON(w, http.StatusOK, resp)
}

// topCityCounts returns the 8 cities with the most listings.
func topCityCounts(ctx context.Context) ([]labelCount, error) {
	return groupCountLimited(ctx, "properties", "city", 8, bson.D{
		{Key: "$match", Value: bson.M{"city": bson.M{"$nin": bson.A{nil, ""}}}},
	})
}

func groupCountLimited(ctx context.Context, collection, field string, limit int, extra ...bson.D) ([]labelCount, error) {
	rows, err := groupCount(ctx, collection, field, extra...)
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// queriesPerDay buckets window inquiries by calendar day, keyed
// "YYYY-MM-DD". Bucketing happens in local time so the dashboard days line
// up with the timeline labels.
func queriesPerDay(ctx context.Context, fromDate time.Time) (map[string]int64, error) {
	_, offsetSeconds := fromDate.Zone()
	offset := fmt.Sprintf("%+03d:%02d", offsetSeconds/3600, abs(offsetSeconds/60)%60)

	pipeline := []bson.D{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": fromDate}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$createdAt",
				"timezone": offset,
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := utils.GetCollection("queries").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// queriesByPropertyType joins window inquiries to their property and counts
// by the property's type, top 10.
func queriesByPropertyType(ctx context.Context, fromDate time.Time) ([]labelCount, error) {
	pipeline := []bson.D{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": fromDate}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "properties",
			"localField":   "property",
			"foreignField": "_id",
			"as":           "propertyDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$propertyDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$propertyDoc.propertyType", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: 10}},
	}

	cursor, err := utils.GetCollection("queries").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID    interface{} `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]labelCount, 0, len(rows))
	for _, row := range rows {
		label, _ := row.ID.(string)
		if label == "" {
			label = "Unknown"
		}
		out = append(out, labelCount{Label: label, Value: row.Count})
	}
	return out, nil
}
