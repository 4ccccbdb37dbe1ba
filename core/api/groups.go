package api

import (
	"context"
	"net/http"
	"net/url"

	"WorshipHub/cache"
	"WorshipHub/logger"
	"WorshipHub/model"
)

// ListGroups returns every group visible to the session ("groups").
func (c *Client) ListGroups(ctx context.Context) ([]model.Group, error) {
	return cache.Fetch(ctx, c.cache, cache.Scalar(cache.KindGroups), false, func(ctx context.Context) ([]model.Group, error) {
		var groups []model.Group
		err := c.do(ctx, http.MethodGet, "/groups", nil, &groups)
		return groups, err
	})
}

// GetGroup returns one group ("group_{id}").
func (c *Client) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	if err := required("group id", id); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindGroup, id), false, func(ctx context.Context) (*model.Group, error) {
		return getOne[model.Group](ctx, c, "/groups/"+url.PathEscape(id))
	})
}

// GetGroupInfo returns a group's counters ("group_info_{id}").
func (c *Client) GetGroupInfo(ctx context.Context, id string) (*model.GroupInfo, error) {
	if err := required("group id", id); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindGroupInfo, id), false, func(ctx context.Context) (*model.GroupInfo, error) {
		return getOne[model.GroupInfo](ctx, c, "/groups/"+url.PathEscape(id)+"/info")
	})
}

// ListUserGroups returns the groups a user belongs to ("groups_user_{uid}").
func (c *Client) ListUserGroups(ctx context.Context, userID string) ([]model.Group, error) {
	if err := required("user id", userID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindGroupsUser, userID), false, func(ctx context.Context) ([]model.Group, error) {
		var groups []model.Group
		err := c.do(ctx, http.MethodGet, "/groups/user/"+url.PathEscape(userID), nil, &groups)
		return groups, err
	})
}

func groupForm(in model.GroupInput) (*body, error) {
	fields := map[string]string{"name": in.Name}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	var file *filePart
	if len(in.Image) > 0 {
		name := in.ImageFilename
		if name == "" {
			name = "image"
		}
		file = &filePart{field: "image", filename: name, data: in.Image}
	}
	return multipartBody(fields, file)
}

// CreateGroup creates a group. The body is multipart so an image can ride along.
func (c *Client) CreateGroup(ctx context.Context, in model.GroupInput) (*model.Group, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	b, err := groupForm(in)
	if err != nil {
		return nil, err
	}
	var g model.Group
	if err := c.do(ctx, http.MethodPost, "/groups", b, &g); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutCreateGroup, Scope{Group: g.ID})
	logger.Info("group created", logger.String("group", g.ID))
	return &g, nil
}

// UpdateGroup updates a group's fields and optional image.
func (c *Client) UpdateGroup(ctx context.Context, id string, in model.GroupInput) (*model.Group, error) {
	if err := required("group id", id); err != nil {
		return nil, err
	}
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	b, err := groupForm(in)
	if err != nil {
		return nil, err
	}
	var g model.Group
	if err := c.do(ctx, http.MethodPut, "/groups/"+url.PathEscape(id), b, &g); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutUpdateGroup, Scope{Group: id})
	return &g, nil
}

// DeleteGroup deletes a group and drops every cache entry mentioning it.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	if err := required("group id", id); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, "/groups/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutDeleteGroup, Scope{Group: id, Deleted: id})
	logger.Info("group deleted", logger.String("group", id))
	return nil
}

// Refresh re-reads the group list after the user comes back to the app,
// dropping the cached group lists (every "groups_user_*" entry) first.
func (c *Client) Refresh(ctx context.Context) ([]model.Group, error) {
	c.cache.Invalidate(ctx, cache.Scalar(cache.KindGroups))
	c.cache.InvalidatePrefix(ctx, string(cache.KindGroupsUser)+"_")
	return c.ListGroups(ctx)
}
