package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiVersion is the GitLab REST API version path segment.
const apiVersion = "v4"

// defaultRequestTimeout bounds individual API calls.
const defaultRequestTimeout = 30 * time.Second

// APIError reports a failed hosting-API call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gitlab api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("gitlab api error: status %d: %s", e.StatusCode, e.Message)
}

// Client implements API against a GitLab instance's REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the GitLab instance at baseURL,
// authenticating with the given private token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (c *Client) Authenticate(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/user", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gitlab auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) CreateProject(ctx context.Context, name, path string) (*Project, error) {
	payload := struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}{Name: name, Path: path}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/projects", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gitlab project creation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var project Project
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to decode project response: %w", err)
	}
	return &project, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/api/%s%s", c.baseURL, apiVersion, path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	return req, nil
}

// decodeError turns a non-2xx response into an APIError, extracting GitLab's
// message field when present.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case len(payload.Message) > 0:
			// message may be a string or a field->reasons map
			apiErr.Message = strings.Trim(string(payload.Message), `"`)
		case payload.Error != "":
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
