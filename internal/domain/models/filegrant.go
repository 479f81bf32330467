// internal/domain/models/filegrant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grant target types.
const (
	TargetUser = "user"
	TargetTeam = "team"
)

// ValidTargetType reports whether t names a grant target type.
func ValidTargetType(t string) bool {
	return t == TargetUser || t == TargetTeam
}

// FileGrant is an explicit, possibly time-limited permission record scoped
// to one exact path and one target (a username or a team id in string
// form). The path may denote a folder; matching is exact, not prefix.
//
// At most one active grant per (file_path, target_type, target_id) triple
// is meaningful: Set retires the prior row rather than merging.
type FileGrant struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FilePath   string             `bson:"file_path" json:"file_path"`
	TargetType string             `bson:"target_type" json:"target_type"`
	TargetID   string             `bson:"target_id" json:"target_id"`
	Perms      PermissionSet      `bson:"perms" json:"perms"`
	ExpiresAt  *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedBy  string             `bson:"created_by" json:"created_by"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Active reports whether the grant is live at the given instant. Expiry is
// evaluated at read time; rows are excluded the moment ExpiresAt passes,
// whether or not the physical sweep has run.
func (g *FileGrant) Active(now time.Time) bool {
	return g.ExpiresAt == nil || g.ExpiresAt.After(now)
}
