package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is one study goal on a user's planner. Unlike bundles, a user's goal
// set is replaced wholesale on save. Collection: goals.
type Goal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Text      string             `bson:"text" json:"text"`
	Completed bool               `bson:"completed" json:"completed"`
	Date      string             `bson:"date" json:"date"` // YYYY-MM-DD
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
