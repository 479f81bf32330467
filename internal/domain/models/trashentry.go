// internal/domain/models/trashentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrashEntry records a soft-deleted object. The object itself is moved
// under the trash prefix in the object store; OriginalPath allows restore.
type TrashEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OriginalPath string             `bson:"original_path" json:"original_path"`
	TrashPath    string             `bson:"trash_path" json:"trash_path"`
	DeletedBy    string             `bson:"deleted_by" json:"deleted_by"`
	DeletedAt    time.Time          `bson:"deleted_at" json:"deleted_at"`
}
