// internal/domain/models/permissionset.go
package models

// Permission names as they appear in API payloads and stored documents.
const (
	PermUpload       = "can_upload"
	PermEdit         = "can_edit"
	PermDelete       = "can_delete"
	PermDownload     = "can_download"
	PermCreateFolder = "can_create_folder"
	PermReview       = "can_review"
)

// AllPermissions lists every named permission in display order.
var AllPermissions = []string{
	PermUpload,
	PermEdit,
	PermDelete,
	PermDownload,
	PermCreateFolder,
	PermReview,
}

// ValidPermission reports whether name is a known permission name.
func ValidPermission(name string) bool {
	for _, p := range AllPermissions {
		if p == name {
			return true
		}
	}
	return false
}

// PermissionSet is the named boolean set attached to users, teams, per-folder
// overrides, and file grants. Fields left unset default to false; a per-folder
// override therefore never inherits from the global set.
type PermissionSet struct {
	CanUpload       bool `bson:"can_upload" json:"can_upload"`
	CanEdit         bool `bson:"can_edit" json:"can_edit"`
	CanDelete       bool `bson:"can_delete" json:"can_delete"`
	CanDownload     bool `bson:"can_download" json:"can_download"`
	CanCreateFolder bool `bson:"can_create_folder" json:"can_create_folder"`
	CanReview       bool `bson:"can_review" json:"can_review"`
}

// AllTrue returns the fully-permissive set used for admins.
func AllTrue() PermissionSet {
	return PermissionSet{
		CanUpload:       true,
		CanEdit:         true,
		CanDelete:       true,
		CanDownload:     true,
		CanCreateFolder: true,
		CanReview:       true,
	}
}

// Has reports whether the named permission is set. Unknown names are false.
func (s PermissionSet) Has(name string) bool {
	switch name {
	case PermUpload:
		return s.CanUpload
	case PermEdit:
		return s.CanEdit
	case PermDelete:
		return s.CanDelete
	case PermDownload:
		return s.CanDownload
	case PermCreateFolder:
		return s.CanCreateFolder
	case PermReview:
		return s.CanReview
	}
	return false
}

// PathWildcard in AllowedPaths grants reachability to every path.
const PathWildcard = "*"

// PermissionBundle is the permission shape shared by users and teams:
// a global named set, the paths the principal may reach, and optional
// per-folder overrides keyed by folder path.
type PermissionBundle struct {
	Global       PermissionSet            `bson:"global" json:"global"`
	AllowedPaths []string                 `bson:"allowed_paths" json:"allowed_paths"`
	PerFolder    map[string]PermissionSet `bson:"per_folder,omitempty" json:"per_folder,omitempty"`
}

// AllowsAllPaths reports whether AllowedPaths carries the wildcard sentinel.
func (b PermissionBundle) AllowsAllPaths() bool {
	for _, p := range b.AllowedPaths {
		if p == PathWildcard {
			return true
		}
	}
	return false
}
