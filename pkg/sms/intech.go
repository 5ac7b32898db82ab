package sms

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

const intechTimeout = 10 * time.Second

// IntechClient talks to the IntechSMS HTTP gateway.
type IntechClient struct {
	url      string
	appKey   string
	senderID string
	client   *http.Client
}

// intechPayload is the gateway's request body.
type intechPayload struct {
	AppKey  string   `json:"app_key"`
	Sender  string   `json:"sender"`
	Content string   `json:"content"`
	MSISDN  []string `json:"msisdn"`
}

func NewIntechClient(url, appKey, senderID string) *IntechClient {
	return &IntechClient{
		url:      url,
		appKey:   appKey,
		senderID: senderID,
		client:   &http.Client{Timeout: intechTimeout},
	}
}

func (c *IntechClient) Send(ctx context.Context, to, message string) error {
	if to == "" {
		return ErrEmptyNumber
	}
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	body, err := json.Marshal(intechPayload{
		AppKey:  c.appKey,
		Sender:  c.senderID,
		Content: message,
		MSISDN:  []string{NormalizeMSISDN(to)},
	})
	if err != nil {
		return fmt.Errorf("sms: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms: gateway returned %d: %s", resp.StatusCode, string(snippet))
	}

	return nil
}
