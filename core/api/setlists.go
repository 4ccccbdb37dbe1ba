package api

import (
	"context"
	"net/http"
	"net/url"

	"WorshipHub/cache"
	"WorshipHub/logger"
	"WorshipHub/model"
)

// ListSetlists returns every setlist visible to the session ("setlists").
func (c *Client) ListSetlists(ctx context.Context) ([]model.Setlist, error) {
	return cache.Fetch(ctx, c.cache, cache.Scalar(cache.KindSetlists), false, func(ctx context.Context) ([]model.Setlist, error) {
		var setlists []model.Setlist
		err := c.do(ctx, http.MethodGet, "/setlists", nil, &setlists)
		return setlists, err
	})
}

// ListGroupSetlists returns a group's setlists ("setlists_group_{id}").
func (c *Client) ListGroupSetlists(ctx context.Context, groupID string) ([]model.Setlist, error) {
	if err := required("group id", groupID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindSetlistsGroup, groupID), false, func(ctx context.Context) ([]model.Setlist, error) {
		var setlists []model.Setlist
		err := c.do(ctx, http.MethodGet, "/setlists/group/"+url.PathEscape(groupID), nil, &setlists)
		return setlists, err
	})
}

// GetSetlist returns one setlist with its ordered musics ("setlist_{id}").
func (c *Client) GetSetlist(ctx context.Context, id string) (*model.Setlist, error) {
	if err := required("setlist id", id); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindSetlist, id), false, func(ctx context.Context) (*model.Setlist, error) {
		return getOne[model.Setlist](ctx, c, setlistPath(id))
	})
}

func setlistPath(id string) string {
	return "/setlists/" + url.PathEscape(id)
}

// CreateSetlist creates a setlist in a group.
func (c *Client) CreateSetlist(ctx context.Context, in model.Setlist) (*model.Setlist, error) {
	if err := required("group id", in.GroupID); err != nil {
		return nil, err
	}
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	if in.Musics == nil {
		in.Musics = []model.SetlistMusic{}
	}
	b, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var s model.Setlist
	if err := c.do(ctx, http.MethodPost, "/setlists", b, &s); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutCreateSetlist, Scope{Group: in.GroupID, Setlist: s.ID})
	return &s, nil
}

// UpdateSetlist updates a setlist's name and date.
func (c *Client) UpdateSetlist(ctx context.Context, in model.Setlist) (*model.Setlist, error) {
	if err := required("setlist id", in.ID); err != nil {
		return nil, err
	}
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	b, err := jsonBody(map[string]string{"name": in.Name, "date": in.Date})
	if err != nil {
		return nil, err
	}
	var s model.Setlist
	if err := c.do(ctx, http.MethodPut, setlistPath(in.ID), b, &s); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutUpdateSetlist, Scope{Group: in.GroupID, Setlist: in.ID})
	return &s, nil
}

// DeleteSetlist deletes a setlist. groupID may be empty when unknown.
func (c *Client) DeleteSetlist(ctx context.Context, id, groupID string) error {
	if err := required("setlist id", id); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, setlistPath(id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutDeleteSetlist, Scope{Group: groupID, Setlist: id, Deleted: id})
	return nil
}

// AddSetlistMusic appends a music to a setlist, optionally in a given tone.
func (c *Client) AddSetlistMusic(ctx context.Context, setlistID, musicID, tone string) error {
	if err := required("setlist id", setlistID); err != nil {
		return err
	}
	if err := required("music id", musicID); err != nil {
		return err
	}
	b, err := jsonBody(map[string]string{"musicId": musicID, "tone": tone})
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, setlistPath(setlistID)+"/musics", b, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutAddSetlistMusic, Scope{Setlist: setlistID})
	return nil
}

// RemoveSetlistMusic removes a music from a setlist.
func (c *Client) RemoveSetlistMusic(ctx context.Context, setlistID, musicID string) error {
	if err := required("setlist id", setlistID); err != nil {
		return err
	}
	if err := required("music id", musicID); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, setlistPath(setlistID)+"/musics/"+url.PathEscape(musicID), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutRemoveSetlistMusic, Scope{Setlist: setlistID})
	return nil
}

// ReorderSetlistMusics sets the play order of a setlist. musicIDs must list
// each music once.
func (c *Client) ReorderSetlistMusics(ctx context.Context, setlistID string, musicIDs []string) error {
	if err := required("setlist id", setlistID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(musicIDs))
	for _, id := range musicIDs {
		if id == "" || seen[id] {
			return invalid("music order must list distinct, non-empty ids")
		}
		seen[id] = true
	}
	b, err := jsonBody(map[string][]string{"musicIds": musicIDs})
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPut, setlistPath(setlistID)+"/musics/order", b, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutReorderSetlistMusics, Scope{Setlist: setlistID})
	logger.Debug("setlist reordered", logger.String("setlist", setlistID), logger.Strings("order", musicIDs))
	return nil
}
