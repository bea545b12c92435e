// Package client talks to the roster HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ipl-fantasy/roster/internal/schedule"
	"github.com/ipl-fantasy/roster/internal/team"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s: %s (%d)", e.Code, e.Message, e.Status)
}

// User is the identity returned by login.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

// Client is a roster API client.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
}

// New creates a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "rosterctl/1.0",
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login logs in as username, creating the user on first use.
func (c *Client) Login(ctx context.Context, username string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/users", map[string]string{"username": username}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ReplaceTeams replaces every team of userID with teams.
func (c *Client) ReplaceTeams(ctx context.Context, userID string, teams team.Set) (team.Set, error) {
	body := struct {
		UserID string   `json:"userId"`
		Teams  team.Set `json:"teams"`
	}{UserID: userID, Teams: teams}

	var out struct {
		Teams team.Set `json:"teams"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/teams", body, &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

// GetTeams returns the team set of userID.
func (c *Client) GetTeams(ctx context.Context, userID string) (team.Set, error) {
	var out struct {
		Teams team.Set `json:"teams"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/teams?userId="+url.QueryEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

// TodayMatches returns the matches the server has scheduled for today.
func (c *Client) TodayMatches(ctx context.Context) ([]schedule.Entry, error) {
	var out struct {
		Matches []schedule.Entry `json:"matches"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/matches/today", nil, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, decodeErr)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s %s data: %w", method, path, err)
	}
	return nil
}
