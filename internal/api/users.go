package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qhuy/iot-console/internal/model"
)

// ListUsers retrieves a page of platform accounts, optionally filtered
// by a search term matched against username and gmail.
func (c *Client) ListUsers(
	ctx context.Context, limit, offset int, search string,
) ([]model.User, model.Pagination, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if search != "" {
		params.Set("search", search)
	}

	var resp UsersResponse
	path := "/api/users?" + params.Encode()
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("listing users: %w", err)
	}
	return resp.Data, resp.Pagination, nil
}

// CreateUser creates a new platform account.
func (c *Client) CreateUser(
	ctx context.Context, payload CreateUserPayload,
) (*model.User, error) {
	var resp UserResponse
	if err := c.Post(ctx, "/api/users", payload, &resp); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &resp.Data, nil
}

// UpdateUser renames an existing account.
func (c *Client) UpdateUser(
	ctx context.Context, id string, payload UpdateUserPayload,
) error {
	path := "/api/users/" + url.PathEscape(id)
	if err := c.Put(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("updating user %s: %w", id, err)
	}
	return nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	path := "/api/users/" + url.PathEscape(id)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}
