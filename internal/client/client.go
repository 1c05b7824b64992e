// Package client is the typed Go client for the HabitGrid API, plus the
// session layer that keeps a local cache consistent with server-confirmed
// mutation outcomes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
)

type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

type CreateHabitInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	IsFavorite  bool    `json:"is_favorite"`
}

type UpdateHabitInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsFavorite  *bool   `json:"is_favorite,omitempty"`
}

// Login exchanges credentials for a bearer token and installs it on the
// client for all subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}

	c.token = resp.Token
	return &resp.User, nil
}

func (c *Client) FetchHabits(ctx context.Context) ([]*domain.Habit, error) {
	var habits []*domain.Habit
	if err := c.do(ctx, http.MethodGet, "/api/v1/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (c *Client) FetchCompletions(ctx context.Context, from, to *time.Time) ([]*domain.Completion, error) {
	path := "/api/v1/completions"
	sep := "?"
	if from != nil {
		path += sep + "from=" + from.Format(time.RFC3339)
		sep = "&"
	}
	if to != nil {
		path += sep + "to=" + to.Format(time.RFC3339)
	}

	var completions []*domain.Completion
	if err := c.do(ctx, http.MethodGet, path, nil, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func (c *Client) CreateHabit(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	var habit domain.Habit
	if err := c.do(ctx, http.MethodPost, "/api/v1/habits", input, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (c *Client) UpdateHabit(ctx context.Context, id string, input UpdateHabitInput) (*domain.Habit, error) {
	var habit domain.Habit
	if err := c.do(ctx, http.MethodPut, "/api/v1/habits/"+id, input, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/habits/"+id, nil, nil)
}

// CreateCompletion marks a habit done on a day. When the server answers
// 409 the day was already marked; the existing completion from the
// response body is returned together with the conflict error so callers
// can treat the outcome as already-achieved.
func (c *Client) CreateCompletion(ctx context.Context, habitID string, date time.Time) (*domain.Completion, error) {
	body := map[string]any{"habit_id": habitID, "date": date.Format(time.RFC3339)}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/completions", body)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var completion domain.Completion
		if err := json.Unmarshal(data, &completion); err != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: "malformed response body"}
		}
		return &completion, nil

	case http.StatusConflict:
		var conflict struct {
			Error      string             `json:"error"`
			Completion *domain.Completion `json:"completion"`
		}
		_ = json.Unmarshal(data, &conflict)
		return conflict.Completion, &APIError{Status: resp.StatusCode, Message: conflict.Error}

	default:
		return nil, decodeError(resp.StatusCode, data)
	}
}

func (c *Client) DeleteCompletion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/completions/"+id, nil, nil)
}

func (c *Client) FetchStats(ctx context.Context) (*domain.UserStats, error) {
	var stats domain.UserStats
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Status: resp.StatusCode, Message: "malformed response body"}
		}
	}

	return nil
}

func decodeError(status int, data []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(data, &payload)
	if payload.Error == "" {
		payload.Error = http.StatusText(status)
	}
	return &APIError{Status: status, Message: payload.Error}
}
