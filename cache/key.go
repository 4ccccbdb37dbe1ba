package cache

import "strings"

// Kind identifies the resource a cache entry holds.
type Kind string

const (
	KindGroups        Kind = "groups"
	KindMusics        Kind = "musics"
	KindSetlists      Kind = "setlists"
	KindGroup         Kind = "group"
	KindGroupMembers  Kind = "group_members"
	KindGroupInfo     Kind = "group_info"
	KindGroupsUser    Kind = "groups_user"
	KindMusic         Kind = "music"
	KindMusicsGroup   Kind = "musics_group"
	KindSetlist       Kind = "setlist"
	KindSetlistsGroup Kind = "setlists_group"
	KindUsersEmail    Kind = "users_email"
)

// Key is a typed cache key. Scalar keys have no ID.
type Key struct {
	Kind Kind
	ID   string
}

// Scalar returns the key of a whole collection, e.g. "groups".
func Scalar(kind Kind) Key {
	return Key{Kind: kind}
}

// For returns a per-id key, e.g. "group_{id}".
func For(kind Kind, id string) Key {
	return Key{Kind: kind, ID: id}
}

// String renders the key in its conventional name form.
func (k Key) String() string {
	if k.ID == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + "_" + k.ID
}

// HasPrefix reports whether the key name starts with prefix.
func (k Key) HasPrefix(prefix string) bool {
	return strings.HasPrefix(k.String(), prefix)
}

// Contains reports whether the key name contains substr.
func (k Key) Contains(substr string) bool {
	return substr != "" && strings.Contains(k.String(), substr)
}
