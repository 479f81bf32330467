// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a comment left on a file by a user holding can_review for it.
// Body is sanitized before storage.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FilePath  string             `bson:"file_path" json:"file_path"`
	Username  string             `bson:"username" json:"username"`
	Body      string             `bson:"body" json:"body"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
