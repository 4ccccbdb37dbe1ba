package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"WorshipHub/cache"
	"WorshipHub/core/cipher"
	"WorshipHub/model"
)

// ListMusics returns every music visible to the session ("musics").
func (c *Client) ListMusics(ctx context.Context) ([]model.Music, error) {
	return cache.Fetch(ctx, c.cache, cache.Scalar(cache.KindMusics), false, func(ctx context.Context) ([]model.Music, error) {
		var musics []model.Music
		err := c.do(ctx, http.MethodGet, "/musics", nil, &musics)
		return musics, err
	})
}

// ListGroupMusics returns a group's song library ("musics_group_{id}").
func (c *Client) ListGroupMusics(ctx context.Context, groupID string) ([]model.Music, error) {
	if err := required("group id", groupID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindMusicsGroup, groupID), false, func(ctx context.Context) ([]model.Music, error) {
		var musics []model.Music
		err := c.do(ctx, http.MethodGet, "/musics/group/"+url.PathEscape(groupID), nil, &musics)
		return musics, err
	})
}

// GetMusic returns one music ("music_{id}").
func (c *Client) GetMusic(ctx context.Context, id string) (*model.Music, error) {
	if err := required("music id", id); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindMusic, id), false, func(ctx context.Context) (*model.Music, error) {
		return getOne[model.Music](ctx, c, "/musics/"+url.PathEscape(id))
	})
}

// CreateMusic adds a music to a group's library.
func (c *Client) CreateMusic(ctx context.Context, in model.Music) (*model.Music, error) {
	if err := required("group id", in.GroupID); err != nil {
		return nil, err
	}
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	b, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var m model.Music
	if err := c.do(ctx, http.MethodPost, "/musics", b, &m); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutCreateMusic, Scope{Group: in.GroupID, Music: m.ID})
	return &m, nil
}

// UpdateMusic replaces a music's fields.
func (c *Client) UpdateMusic(ctx context.Context, in model.Music) (*model.Music, error) {
	if err := required("music id", in.ID); err != nil {
		return nil, err
	}
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	b, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var m model.Music
	if err := c.do(ctx, http.MethodPut, "/musics/"+url.PathEscape(in.ID), b, &m); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutUpdateMusic, Scope{Group: in.GroupID, Music: in.ID})
	return &m, nil
}

// DeleteMusic deletes a music. groupID may be empty when unknown, in which
// case every per-group music list is dropped.
func (c *Client) DeleteMusic(ctx context.Context, id, groupID string) error {
	if err := required("music id", id); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, "/musics/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, MutDeleteMusic, Scope{Group: groupID, Music: id, Deleted: id})
	return nil
}

// LoadCipher fetches a music and parses its chord arrangement.
func (c *Client) LoadCipher(ctx context.Context, musicID string) (*model.Music, cipher.Cipher, error) {
	m, err := c.GetMusic(ctx, musicID)
	if err != nil {
		return nil, cipher.Cipher{}, err
	}
	return m, cipher.Load(m.Cipher, m.Tone), nil
}

// SaveCipher writes an edited arrangement back to the music, updating its
// tone to the cipher key.
func (c *Client) SaveCipher(ctx context.Context, m *model.Music, ci cipher.Cipher) (*model.Music, error) {
	raw, err := cipher.Serialize(ci)
	if err != nil {
		return nil, fmt.Errorf("serialize cipher: %w", err)
	}
	updated := *m
	updated.Cipher = raw
	updated.Tone = ci.Key
	return c.UpdateMusic(ctx, updated)
}
