package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultURL = "https://api.sms.example/v1"

var (
	errEmptyToken     = fmt.Errorf("empty token")
	errEmptyRecipient = fmt.Errorf("empty recipient")
	errResponseStatus = fmt.Errorf("response status no ok")
)

// Sender delivers a text message to a phone number
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type client struct {
	token      string
	sender     string
	httpClient *resty.Client
}

type messageRequest struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
	Body string `json:"body"`
}

type messageResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Send posts a message to the gateway and returns the id it was queued with
func (c *client) Send(ctx context.Context, to, body string) (string, error) {
	if c.token == "" {
		return "", errEmptyToken
	}
	if to == "" {
		return "", errEmptyRecipient
	}

	var r messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetBody(messageRequest{To: to, From: c.sender, Body: body}).
		SetResult(&r).
		SetError(&r).
		Post("/messages")
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", fmt.Errorf("sms gateway http %d: %s", resp.StatusCode(), r.Error)
	}

	if r.Status != "queued" && r.Status != "sent" {
		return "", errResponseStatus
	}

	return r.MessageID, nil
}

// New returns a gateway client. An empty url points to the default gateway.
func New(token, sender, url string) Sender {
	u := defaultURL
	if url != "" {
		u = url
	}

	return &client{
		token:  token,
		sender: sender,
		httpClient: resty.New().
			SetBaseURL(u).
			SetTimeout(15*time.Second).
			SetHeader("Accept", "application/json"),
	}
}
