// Package client is the Goal Repository Client: it reads and writes the
// caller's goals through the store's HTTP API.
//
// Every call takes an explicit Session. There is no ambient "current user";
// a nil or empty session fails with ErrAuthenticationRequired before any
// request is made. Calls are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/validation"
)

// Session carries the caller's identity token.
type Session struct {
	Token string
}

func (s *Session) valid() bool {
	return s != nil && strings.TrimSpace(s.Token) != ""
}

type GoalClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
}

type Option func(*GoalClient)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GoalClient) {
		c.httpClient = hc
	}
}

// WithAPIKey sends key as X-API-Key on every request.
func WithAPIKey(key string) Option {
	return func(c *GoalClient) {
		c.apiKey = key
	}
}

func New(baseURL string, opts ...Option) (*GoalClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &GoalClient{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromEnv builds a client from NOCHASE_URL and NOCHASE_API_KEY.
func FromEnv(opts ...Option) (*GoalClient, error) {
	baseURL := os.Getenv("NOCHASE_URL")
	if baseURL == "" {
		return nil, errors.New("NOCHASE_URL is not set")
	}
	if key := os.Getenv("NOCHASE_API_KEY"); key != "" {
		opts = append([]Option{WithAPIKey(key)}, opts...)
	}
	return New(baseURL, opts...)
}

func (c *GoalClient) CreateGoal(ctx context.Context, sess *Session, input model.NewGoal) (*model.Goal, error) {
	if !sess.valid() {
		return nil, ErrAuthenticationRequired
	}
	err := validation.ValidateNewGoal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var goal model.Goal
	err = c.do(ctx, sess, http.MethodPost, "/api/goals", input, http.StatusCreated, &goal)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoals returns the caller's goals, newest created first.
func (c *GoalClient) ListGoals(ctx context.Context, sess *Session) ([]*model.Goal, error) {
	if !sess.valid() {
		return nil, ErrAuthenticationRequired
	}

	goals := []*model.Goal{}
	err := c.do(ctx, sess, http.MethodGet, "/api/goals", nil, http.StatusOK, &goals)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *GoalClient) Goal(ctx context.Context, sess *Session, id string) (*model.Goal, error) {
	err := checkCall(sess, id)
	if err != nil {
		return nil, err
	}

	var goal model.Goal
	err = c.do(ctx, sess, http.MethodGet, goalPath(id), nil, http.StatusOK, &goal)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal applies a partial update. The store refreshes updated_at.
func (c *GoalClient) UpdateGoal(ctx context.Context, sess *Session, id string, patch model.GoalPatch) (*model.Goal, error) {
	err := checkCall(sess, id)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var goal model.Goal
	err = c.do(ctx, sess, http.MethodPatch, goalPath(id), patch, http.StatusOK, &goal)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// CompleteGoal marks the goal done. Completing a completed goal succeeds.
func (c *GoalClient) CompleteGoal(ctx context.Context, sess *Session, id string) (*model.Goal, error) {
	completed := true
	return c.UpdateGoal(ctx, sess, id, model.GoalPatch{Completed: &completed})
}

// DeleteGoal removes the goal. Deleting a goal that is already gone succeeds.
func (c *GoalClient) DeleteGoal(ctx context.Context, sess *Session, id string) error {
	err := checkCall(sess, id)
	if err != nil {
		return err
	}
	return c.do(ctx, sess, http.MethodDelete, goalPath(id), nil, http.StatusNoContent, nil)
}

func (c *GoalClient) Summary(ctx context.Context, sess *Session) (*model.GoalSummary, error) {
	if !sess.valid() {
		return nil, ErrAuthenticationRequired
	}

	var summary model.GoalSummary
	err := c.do(ctx, sess, http.MethodGet, "/api/goals/summary", nil, http.StatusOK, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func checkCall(sess *Session, id string) error {
	if !sess.valid() {
		return ErrAuthenticationRequired
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: goal id is required", ErrValidation)
	}
	return nil
}

func goalPath(id string) string {
	return "/api/goals/" + url.PathEscape(id)
}

// authorized returns an HTTP client that adds the session's bearer token.
func (c *GoalClient) authorized(sess *Session) *http.Client {
	hc := *c.httpClient
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}),
		Base:   c.httpClient.Transport,
	}
	return &hc
}

func (c *GoalClient) do(ctx context.Context, sess *Session, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %w", ErrValidation, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %w", ErrStoreFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.authorized(sess).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrStoreFailure, err)
	}
	return nil
}
