package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
)

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

// Errors FCM reports for tokens that should never be used again.
const (
	ResultNotRegistered       = "NotRegistered"
	ResultInvalidRegistration = "InvalidRegistration"
)

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type multicastRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    Notification      `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type multicastResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// SendResult reports the outcome per token of one multicast call.
type SendResult struct {
	Success       int
	Failure       int
	InvalidTokens []string
}

type Client interface {
	SendMulticast(ctx context.Context, tokens []string, n Notification, data map[string]string) (*SendResult, error)
}

type client struct {
	log        *logger.Logger
	endpoint   string
	serverKey  string
	httpClient *http.Client
}

func New(log *logger.Logger) (Client, error) {
	serverKey := os.Getenv("FCM_SERVER_KEY")
	if serverKey == "" {
		return nil, fmt.Errorf("missing FCM_SERVER_KEY")
	}

	endpoint := os.Getenv("FCM_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	timeoutSec := 15
	if v := os.Getenv("FCM_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:        log.With("service", "FCMClient"),
		endpoint:   endpoint,
		serverKey:  serverKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

// SendMulticast pushes one notification to every token in a single call.
// One attempt only; a failed batch is a failed batch.
func (c *client) SendMulticast(ctx context.Context, tokens []string, n Notification, data map[string]string) (*SendResult, error) {
	if len(tokens) == 0 {
		return &SendResult{}, nil
	}

	body := multicastRequest{
		RegistrationIDs: tokens,
		Notification:    n,
		Data:            data,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "key="+c.serverKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fcm http %d: %s", resp.StatusCode, string(raw))
	}

	var parsed multicastResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode fcm response: %w", err)
	}

	out := &SendResult{Success: parsed.Success, Failure: parsed.Failure}
	for i, r := range parsed.Results {
		if r.Error == ResultNotRegistered || r.Error == ResultInvalidRegistration {
			if i < len(tokens) {
				out.InvalidTokens = append(out.InvalidTokens, tokens[i])
			}
		}
	}
	return out, nil
}
