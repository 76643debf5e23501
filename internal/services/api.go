// HTTP client for the photo service backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:3000"
	defaultTimeout = 5 * time.Second
)

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables limiting
	HTTPClient *http.Client
	Store      session.Store
	Logger     *log.Logger
}

// Client talks to the photo service backend.
//
// Every request carries "Authorization: Bearer <token>" exactly when [session.Authenticated] holds for the same store,
// so the HTTP layer and the navigation guard agree on who is logged in.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      session.Store
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a [Client]. Zero values fall back to http://localhost:3000 and a five second timeout.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		store:      opts.Store,
		logger:     shared.WithLogger(opts.Logger, "component", "api"),
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to path and returns the raw response without interpreting the status.
func (c *Client) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// Post performs a POST request with a JSON body and returns the raw response without interpreting the status.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

// Liveness checks that the backend is up.
func (c *Client) Liveness(ctx context.Context) error {
	resp, err := c.Get(ctx, "/liveness")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return checkStatus(resp)
}

// GetProfile fetches the profile of the user with id.
//
// Calls GET /profiles/{id}.
func (c *Client) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}

	var profile models.UserProfile
	if err := c.getJSON(ctx, "/profiles/"+url.PathEscape(id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetStream fetches up to amount photos per followed user, skipping offset, for the user with id.
//
// Calls GET /stream/{id}?amount=&offset=.
func (c *Client) GetStream(ctx context.Context, id string, amount, offset int) (*models.Stream, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: stream owner id", shared.ErrMissingArgument)
	}
	if amount <= 0 || offset < 0 {
		return nil, fmt.Errorf("%w: amount=%d offset=%d", shared.ErrInvalidArgument, amount, offset)
	}

	q := url.Values{}
	q.Set("amount", strconv.Itoa(amount))
	q.Set("offset", strconv.Itoa(offset))

	var stream models.Stream
	if err := c.getJSON(ctx, "/stream/"+url.PathEscape(id)+"?"+q.Encode(), &stream); err != nil {
		return nil, err
	}
	return &stream, nil
}

// Search looks up users whose name matches pattern. A search without results is not an error.
//
// Calls GET /search?pattern=.
func (c *Client) Search(ctx context.Context, pattern string) (*models.UserList, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: search pattern", shared.ErrMissingArgument)
	}

	q := url.Values{}
	q.Set("pattern", pattern)

	var users models.UserList
	err := c.getJSON(ctx, "/search?"+q.Encode(), &users)
	if errors.Is(err, shared.ErrNotFound) {
		return &models.UserList{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &users, nil
}

// UploadPhoto posts the raw image in r as a new photo of the user with id and returns the server's message.
//
// Calls POST /profiles/{id}/photos.
func (c *Client) UploadPhoto(ctx context.Context, id string, r io.Reader) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}
	if r == nil {
		return "", fmt.Errorf("%w: image body", shared.ErrMissingArgument)
	}

	return c.send(ctx, http.MethodPost, profilePath(id, "photos"), r, "application/octet-stream")
}

// send performs a request whose success body is a plain text message and returns that message.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (string, error) {
	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp.Body)), nil
}

func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*APIResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := session.Bearer(ctx, c.store, c.logger); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}
	return apiResp, nil
}

// checkStatus maps non-2xx responses to shared errors.
func checkStatus(resp *APIResponse) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := strings.TrimSpace(string(resp.Body))
	if len(msg) > 200 {
		msg = msg[:200]
	}

	var base error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		base = shared.ErrUnauthorized
	case http.StatusForbidden:
		base = shared.ErrForbidden
	case http.StatusNotFound:
		base = shared.ErrNotFound
	case http.StatusConflict:
		base = shared.ErrConflict
	case http.StatusServiceUnavailable:
		base = shared.ErrServiceUnavailable
	default:
		base = shared.ErrAPIRequest
	}

	if msg == "" {
		return fmt.Errorf("%w (status %d)", base, resp.StatusCode)
	}
	return fmt.Errorf("%w (status %d): %s", base, resp.StatusCode, msg)
}
