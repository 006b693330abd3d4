package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bitmark-inc/triage-api/schema"
)

var ErrNotSignedIn = fmt.Errorf("not signed in")

// APIError is an error answered by the triage api
type APIError struct {
	Status  int    `json:"-"`
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (http %d): %s", e.Code, e.Status, e.Message)
}

// IsUnauthorized tells whether the api refused the session token
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type tokenResponse struct {
	Token string `json:"token"`
}

type alertListResponse struct {
	Alerts []schema.Alert     `json:"alerts"`
	Counts schema.AlertCounts `json:"counts"`
}

type alertResponse struct {
	Alert schema.Alert `json:"alert"`
}

// APIClient talks to the triage api on behalf of a signed in worker
type APIClient struct {
	sync.RWMutex
	httpClient *resty.Client
	token      string
}

func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &APIClient{httpClient: client}
}

func (c *APIClient) SetToken(token string) {
	c.Lock()
	c.token = token
	c.Unlock()
}

func (c *APIClient) Token() string {
	c.RLock()
	defer c.RUnlock()
	return c.token
}

func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var result tokenResponse
	if err := c.do(ctx, false, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result); err != nil {
		return "", err
	}
	c.SetToken(result.Token)
	return result.Token, nil
}

func (c *APIClient) SignUp(ctx context.Context, fullName, email, phone, password string) (string, error) {
	var result tokenResponse
	if err := c.do(ctx, false, http.MethodPost, "/api/auth/signup", map[string]string{
		"full_name": fullName,
		"email":     email,
		"phone":     phone,
		"password":  password,
	}, &result); err != nil {
		return "", err
	}
	c.SetToken(result.Token)
	return result.Token, nil
}

// ListAlerts returns every alert of the worker, the board filters them locally
func (c *APIClient) ListAlerts(ctx context.Context) ([]schema.Alert, error) {
	var result alertListResponse
	if err := c.do(ctx, true, http.MethodGet, "/api/alerts?status="+string(schema.FilterAll), nil, &result); err != nil {
		return nil, err
	}
	return result.Alerts, nil
}

func (c *APIClient) Contact(ctx context.Context, id int64) (*schema.Alert, error) {
	var result alertResponse
	if err := c.do(ctx, true, http.MethodPatch, "/api/alerts/"+strconv.FormatInt(id, 10)+"/contacting", nil, &result); err != nil {
		return nil, err
	}
	return &result.Alert, nil
}

func (c *APIClient) Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) (*schema.Alert, error) {
	var result alertResponse
	if err := c.do(ctx, true, http.MethodPost, "/api/alerts/"+strconv.FormatInt(id, 10)+"/resolve", map[string]string{
		"resolution": string(resolution),
		"notes":      notes,
	}, &result); err != nil {
		return nil, err
	}
	return &result.Alert, nil
}

func (c *APIClient) do(ctx context.Context, auth bool, method, path string, body, result interface{}) error {
	var apiErr APIError
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiErr)

	if auth {
		token := c.Token()
		if token == "" {
			return ErrNotSignedIn
		}
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return &apiErr
	}
	return nil
}
