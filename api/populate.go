package api

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/himashiprops/estate-backend/models"
	"github.com/himashiprops/estate-backend/utils"
)

// fetchUserSummaries batch-loads a name/email/phone projection for the given
// user ids, keyed by id.
func fetchUserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	out := map[primitive.ObjectID]*models.UserSummary{}
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := utils.GetCollection("users").Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1}),
	)
	if err != nil {
		return nil, err
	}

	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// fetchPropertySummaries batch-loads the listing projection for the given
// property ids, keyed by id.
func fetchPropertySummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PropertySummary, error) {
	out := map[primitive.ObjectID]*models.PropertySummary{}
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := utils.GetCollection("properties").Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{
			"title": 1, "propertyType": 1, "listingType": 1,
			"price": 1, "city": 1, "state": 1,
		}),
	)
	if err != nil {
		return nil, err
	}

	var properties []models.PropertySummary
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	for i := range properties {
		out[properties[i].ID] = &properties[i]
	}
	return out, nil
}
