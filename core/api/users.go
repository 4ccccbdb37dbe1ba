package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"WorshipHub/cache"
	"WorshipHub/logger"
	"WorshipHub/model"
	"WorshipHub/session"
)

// SearchUsersByEmail looks users up by (partial) email ("users_email_{q}").
func (c *Client) SearchUsersByEmail(ctx context.Context, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if err := required("email query", query); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, cache.For(cache.KindUsersEmail, query), false, func(ctx context.Context) ([]model.User, error) {
		var users []model.User
		err := c.do(ctx, http.MethodGet, "/users/search?email="+url.QueryEscape(query), nil, &users)
		return users, err
	})
}

// UpdateProfile updates the current user and wipes the cache.
func (c *Client) UpdateProfile(ctx context.Context, in model.ProfileUpdate) (*model.User, error) {
	if in.Name == "" && in.ImageURL == "" {
		return nil, invalid("nothing to update")
	}
	b, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := c.do(ctx, http.MethodPut, "/users/me", b, &u); err != nil {
		return nil, err
	}
	c.invalidate(ctx, MutUpdateProfile, Scope{})
	return &u, nil
}

// Login authenticates and stores the session credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := required("email", email); err != nil {
		return nil, err
	}
	if err := required("password", password); err != nil {
		return nil, err
	}
	b, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	var res model.LoginResult
	if err := c.send(ctx, http.MethodPost, "/auth/login", b, &res, false); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response carried no token"}
	}
	if c.session != nil {
		if err := c.session.Save(session.Session{Token: res.Token, FirebaseUID: res.User.FirebaseUID}); err != nil {
			return nil, err
		}
	}
	c.cache.Clear(ctx)
	logger.Info("logged in", logger.String("user", res.User.ID))
	return &res.User, nil
}

// Logout forgets the stored credentials and everything cached under them.
func (c *Client) Logout(ctx context.Context) error {
	c.cache.Clear(ctx)
	if c.session == nil {
		return nil
	}
	return c.session.Clear()
}

// CurrentSession returns the stored credentials.
func (c *Client) CurrentSession() (session.Session, error) {
	if c.session == nil {
		return session.Session{}, nil
	}
	return c.session.Load()
}
