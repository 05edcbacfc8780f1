package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	model "task-manager.com/task-manager/internal/models"
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Client talks to the task service over its JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type createTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateTaskBody struct {
	Completed bool   `json:"completed"`
	Status    string `json:"status"`
}

func (c *Client) ListTasks(ctx context.Context, params url.Values) ([]model.Task, error) {
	target := c.baseURL + "/tasks"
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, target, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description, status string) (*model.Task, error) {
	var task model.Task
	body := createTaskBody{Title: title, Description: description, Status: status}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/tasks", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) SetCompleted(ctx context.Context, id string, completed bool, status string) error {
	body := updateTaskBody{Completed: completed, Status: status}
	return c.do(ctx, http.MethodPut, c.taskURL(id), body, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.taskURL(id), nil, nil)
}

func (c *Client) taskURL(id string) string {
	return c.baseURL + "/tasks/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
