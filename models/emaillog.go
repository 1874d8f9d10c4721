package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailLog is a best-effort audit record of an outbound email. Failing to
// write one never fails the request that sent the email.
type EmailLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	To        []string           `bson:"to" json:"to"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Text      string             `bson:"text,omitempty" json:"text,omitempty"`
	HTML      string             `bson:"html,omitempty" json:"html,omitempty"`
	MessageID string             `bson:"messageId,omitempty" json:"messageId,omitempty"`
	Accepted  []string           `bson:"accepted,omitempty" json:"accepted,omitempty"`
	Rejected  []string           `bson:"rejected,omitempty" json:"rejected,omitempty"`
	Response  string             `bson:"response,omitempty" json:"response,omitempty"`
	Error     string             `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
