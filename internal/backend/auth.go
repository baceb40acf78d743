// internal/backend/auth.go
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

func (c *Client) SignIn(ctx context.Context, in SignInRequest) (*SignInResponse, error) {
	var out SignInResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/signin", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, in SignUpRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context, username string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.getJSON(ctx, "/api/user/profile?username="+url.QueryEscape(username), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.sendJSON(ctx, http.MethodPut, "/api/user/profile", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdatePassword(ctx context.Context, in PasswordUpdate) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/user/password", in, nil)
}
