package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"personnel/internal/shared/models"
)

// List fetches the whole collection ordered by creation time.
func (c *Client) List(ctx context.Context, mode models.SortMode) ([]models.Person, error) {
	if mode == "" {
		mode = models.SortDescend
	}
	q := url.Values{"mode": {string(mode)}}
	raw, err := c.Perform(ctx, http.MethodGet, "/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []models.Person{}, nil
	}
	var list models.PersonList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode personnel list: %w", err)
	}
	if list.Items == nil {
		list.Items = []models.Person{}
	}
	return list.Items, nil
}

// Get fetches one record.
func (c *Client) Get(ctx context.Context, id string) (*models.Person, error) {
	raw, err := c.Perform(ctx, http.MethodGet, itemPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decodePerson(raw)
}

// Create posts a new record. The returned person is nil if the backend
// answered without a body.
func (c *Client) Create(ctx context.Context, in models.PersonInput) (*models.Person, error) {
	raw, err := c.Perform(ctx, http.MethodPost, "/", in)
	if err != nil {
		return nil, err
	}
	return decodePerson(raw)
}

// Update replaces the record addressed by originalID. in.ID may differ from
// originalID, which renames the record.
func (c *Client) Update(ctx context.Context, originalID string, in models.PersonInput) (*models.Person, error) {
	raw, err := c.Perform(ctx, http.MethodPut, itemPath(originalID), in)
	if err != nil {
		return nil, err
	}
	return decodePerson(raw)
}

// Patch updates only the fields set in p.
func (c *Client) Patch(ctx context.Context, originalID string, p models.PersonPatch) (*models.Person, error) {
	raw, err := c.Perform(ctx, http.MethodPut, itemPath(originalID), p)
	if err != nil {
		return nil, err
	}
	return decodePerson(raw)
}

// Delete removes the record addressed by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.Perform(ctx, http.MethodDelete, itemPath(id), nil)
	return err
}

func itemPath(id string) string {
	return "/" + url.PathEscape(id)
}

func decodePerson(raw json.RawMessage) (*models.Person, error) {
	if raw == nil {
		return nil, nil
	}
	var p models.Person
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode personnel record: %w", err)
	}
	return &p, nil
}
