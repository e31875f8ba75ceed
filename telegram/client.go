// Package telegram delivers notifications through the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

const defaultTimeout = 30 * time.Second

// Config configures a Client. BotToken is required.
type Config struct {
	// BotToken authenticates the bot.
	BotToken string

	// BaseURL overrides the API endpoint; defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the HTTP client; defaults to one with a
	// 30 second timeout.
	HTTPClient *http.Client
}

// Client sends messages as a single bot.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: baseURL,
		token:   cfg.BotToken,
		http:    httpClient,
	}
}

// apiResponse is the envelope every Bot API method returns.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendError is returned when the Bot API refuses a message.
type SendError struct {
	ChatID      int64
	Status      int
	Description string
}

func (e *SendError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram: sending to chat %d: %s", e.ChatID, e.Description)
	}
	return fmt.Sprintf("telegram: sending to chat %d: status %d", e.ChatID, e.Status)
}

// SendMessage delivers an HTML-formatted message to a single chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("telegram: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &SendError{ChatID: chatID, Status: resp.StatusCode}
	}
	if !result.OK {
		return &SendError{ChatID: chatID, Status: resp.StatusCode, Description: result.Description}
	}
	return nil
}
