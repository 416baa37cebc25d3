package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hackorsnooze/internal/domain"
)

func (c *Client) Signup(ctx context.Context, s domain.Signup) (domain.AuthResult, error) {
	var out authEnvelope
	err := c.do(ctx, call{
		op:       "signup",
		method:   http.MethodPost,
		path:     "/signup",
		in:       signupBody{User: s},
		out:      &out,
		statuses: signupStatuses,
	})
	if err != nil {
		return domain.AuthResult{}, err
	}
	return authOf("signup", out)
}

func (c *Client) Login(ctx context.Context, username, password string) (domain.AuthResult, error) {
	var body loginBody
	body.User.Username = username
	body.User.Password = password

	var out authEnvelope
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/login",
		in:       body,
		out:      &out,
		statuses: loginStatuses,
	})
	if err != nil {
		return domain.AuthResult{}, err
	}
	return authOf("login", out)
}

// FetchProfile looks up username with token. Any auth or lookup rejection is
// reported as domain.ErrInvalidSession since it is only used to restore.
func (c *Client) FetchProfile(ctx context.Context, token, username string) (domain.UserRecord, error) {
	var out userEnvelope
	err := c.do(ctx, call{
		op:       "fetch_profile",
		method:   http.MethodGet,
		path:     userPath(username),
		query:    url.Values{"token": {token}},
		out:      &out,
		statuses: profileStatuses,
	})
	if err != nil {
		return domain.UserRecord{}, err
	}
	return userOf("fetch_profile", out)
}

func (c *Client) UpdateProfile(ctx context.Context, token, username string, upd domain.ProfileUpdate) (domain.UserRecord, error) {
	var out userEnvelope
	err := c.do(ctx, call{
		op:     "update_profile",
		method: http.MethodPatch,
		path:   userPath(username),
		in: profileBody{
			Token: token,
			User:  profileFields{Name: upd.Name, Password: upd.Password},
		},
		out: &out,
	})
	if err != nil {
		return domain.UserRecord{}, err
	}
	return userOf("update_profile", out)
}

func (c *Client) AddFavorite(ctx context.Context, token, username, storyID string) (domain.UserRecord, error) {
	return c.favorite(ctx, "add_favorite", http.MethodPost, token, username, storyID)
}

func (c *Client) RemoveFavorite(ctx context.Context, token, username, storyID string) (domain.UserRecord, error) {
	return c.favorite(ctx, "remove_favorite", http.MethodDelete, token, username, storyID)
}

func (c *Client) favorite(ctx context.Context, op, method, token, username, storyID string) (domain.UserRecord, error) {
	var out userEnvelope
	err := c.do(ctx, call{
		op:     op,
		method: method,
		path:   favoritePath(username, storyID),
		in:     tokenBody{Token: token},
		out:    &out,
	})
	if err != nil {
		return domain.UserRecord{}, err
	}
	return userOf(op, out)
}

func authOf(op string, env authEnvelope) (domain.AuthResult, error) {
	if env.Token == "" {
		return domain.AuthResult{}, fmt.Errorf("%w: %s: missing token", domain.ErrMalformedRecord, op)
	}
	user, err := userOf(op, userEnvelope{User: env.User})
	if err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{User: user, Token: env.Token}, nil
}

func userOf(op string, env userEnvelope) (domain.UserRecord, error) {
	if env.User == nil || env.User.Username == "" {
		return domain.UserRecord{}, fmt.Errorf("%w: %s: missing user", domain.ErrMalformedRecord, op)
	}
	return *env.User, nil
}
