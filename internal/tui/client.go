// Package tui is the terminal client for the dashboard. It talks to the
// HTTP API with a login token and renders the payloads in a tabbed view.
package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/server"
)

// Client is a minimal API client over the dashboard server.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient points a client at the server base URL, e.g.
// "http://localhost:8787".
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, user, pass string) error {
	body, _ := json.Marshal(map[string]string{
		"username": user,
		"password": pass,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("login response missing token")
	}
	c.token = out.Token
	return nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	u := c.base + path
	sep := "?"
	if parsed, err := url.Parse(u); err == nil && parsed.RawQuery != "" {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+sep+"token="+url.QueryEscape(c.token), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Data fetches the combined dashboard payload.
func (c *Client) Data(ctx context.Context) (server.DataPayload, error) {
	var payload server.DataPayload
	err := c.get(ctx, "/api/data", &payload)
	return payload, err
}

// Sprints fetches the full task list for the board tab.
func (c *Client) Sprints(ctx context.Context) ([]board.Task, error) {
	var out struct {
		Tasks []board.Task `json:"tasks"`
	}
	if err := c.get(ctx, "/api/sprints", &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// MoveTask moves a task to another column.
func (c *Client) MoveTask(ctx context.Context, id int, status string) error {
	body, _ := json.Marshal(map[string]string{"status": status})
	u := fmt.Sprintf("%s/api/sprints/%d/move?token=%s", c.base, id, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("move task %d: %s", id, resp.Status)
	}
	return nil
}
