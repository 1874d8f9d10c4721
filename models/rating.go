package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is a star rating by a user for a property. One record per
// (property, user) pair, enforced by a unique index; re-submission updates
// the existing record.
type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Stars     int                `bson:"stars" json:"stars"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
