package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"WorshipHub/cache"
	"WorshipHub/model"
)

// GetGroupMembers returns a group's members ("group_members_{id}"). force
// skips the cached copy.
func (c *Client) GetGroupMembers(ctx context.Context, groupID string, force bool) ([]model.GroupMember, error) {
	if err := required("group id", groupID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindGroupMembers, groupID), force, func(ctx context.Context) ([]model.GroupMember, error) {
		var members []model.GroupMember
		err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID)+"/members", nil, &members)
		return members, err
	})
}

func membersPath(groupID string) string {
	return "/groups/" + url.PathEscape(groupID) + "/members"
}

// AddMember invites a user by email with the given permission.
func (c *Client) AddMember(ctx context.Context, groupID, email string, perm model.Permission) (*model.GroupMember, error) {
	if err := required("group id", groupID); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if err := required("email", email); err != nil {
		return nil, err
	}
	if !perm.Valid() {
		return nil, invalid("unknown permission %q", perm)
	}
	b, err := jsonBody(map[string]string{"email": email, "permission": string(perm)})
	if err != nil {
		return nil, err
	}
	var m model.GroupMember
	if err := c.do(ctx, http.MethodPost, membersPath(groupID), b, &m); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutAddMember, Scope{Group: groupID})
	return &m, nil
}

// RemoveMember removes a user from a group.
func (c *Client) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := required("group id", groupID); err != nil {
		return err
	}
	if err := required("user id", userID); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, membersPath(groupID)+"/"+url.PathEscape(userID), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutRemoveMember, Scope{Group: groupID})
	return nil
}

// SetPermission changes a member's permission.
func (c *Client) SetPermission(ctx context.Context, groupID, userID string, perm model.Permission) error {
	if err := required("group id", groupID); err != nil {
		return err
	}
	if err := required("user id", userID); err != nil {
		return err
	}
	if !perm.Valid() {
		return invalid("unknown permission %q", perm)
	}
	b, err := jsonBody(map[string]string{"permission": string(perm)})
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPatch, membersPath(groupID)+"/"+url.PathEscape(userID), b, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutSetPermission, Scope{Group: groupID})
	return nil
}
