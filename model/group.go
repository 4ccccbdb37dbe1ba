package model

import "time"

// Permission is a member's role inside a group.
type Permission string

const (
	PermissionAdmin  Permission = "admin"
	PermissionEditor Permission = "editor"
	PermissionViewer Permission = "viewer"
)

// Valid reports whether p is one of the known permissions.
func (p Permission) Valid() bool {
	switch p {
	case PermissionAdmin, PermissionEditor, PermissionViewer:
		return true
	}
	return false
}

// Group is a worship group (band, ministry) owning musics and setlists.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	OwnerID     string    `json:"ownerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// GroupInput is the payload for creating or updating a group. Image, when
// set, is sent as a multipart file part.
type GroupInput struct {
	Name          string
	Description   string
	Image         []byte
	ImageFilename string
}

// GroupMember is a user's membership in a group.
type GroupMember struct {
	UserID     string     `json:"userId"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
}

// GroupInfo holds the counters shown on a group's overview.
type GroupInfo struct {
	GroupID      string `json:"groupId"`
	MusicCount   int    `json:"musicCount"`
	SetlistCount int    `json:"setlistCount"`
	MemberCount  int    `json:"memberCount"`
}
