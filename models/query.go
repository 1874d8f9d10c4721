package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var QueryStatuses = map[string]bool{"New": true, "Contacted": true, "Closed": true}

// PropertyQuery is a buyer inquiry against a property. Name, email and phone
// are snapshotted at submission time, falling back to the user record.
type PropertyQuery struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Message   string             `bson:"message" json:"message"`
	Status    string             `bson:"status" json:"status"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
