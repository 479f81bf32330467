// internal/domain/models/sharelink.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShareLink is a token-addressed download link for a single file, created
// by a user holding can_download for that path. Expiry is evaluated at
// redeem time like grant expiry.
type ShareLink struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token     string             `bson:"token" json:"token"`
	FilePath  string             `bson:"file_path" json:"file_path"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Active reports whether the link can still be redeemed at now.
func (l *ShareLink) Active(now time.Time) bool {
	return l.ExpiresAt == nil || l.ExpiresAt.After(now)
}
