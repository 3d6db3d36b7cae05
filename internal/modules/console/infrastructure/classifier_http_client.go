package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/nicovaras/clare/internal/modules/console/application/port"
	"github.com/nicovaras/clare/internal/modules/console/domain"
	"github.com/nicovaras/clare/internal/shared/auth"
)

// maxErrorBodyBytes caps how much of a rejected response is read for its error field.
const maxErrorBodyBytes = 64 << 10

const (
	sendMessagePath     = "/send-message"
	initiateCheckInPath = "/initiate-check-in"
	getContextBasePath  = "/get-context"
	updateContextPath   = "/update-context"
)

// ClassifierHTTPClient implements ClassifierBackend against the classifier REST API.
type ClassifierHTTPClient struct {
	rest      *RESTClient
	requestID func() string
}

// getContextPath builds /get-context/{userId} with the identifier escaped.
func getContextPath(userID string) (string, error) {
	identifier := strings.TrimSpace(userID)
	if identifier == "" {
		return "", fmt.Errorf("%w: empty path identifier", domain.ErrMissingInput)
	}
	return getContextBasePath + "/" + url.PathEscape(identifier), nil
}

// NewClassifierHTTPClient builds a client for the backend rooted at baseURL.
func NewClassifierHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *ClassifierHTTPClient {
	return &ClassifierHTTPClient{
		rest:      NewRESTClient(baseURL, timeout, client),
		requestID: uuid.NewString,
	}
}

// BaseURL reports the backend base URL in use.
func (c *ClassifierHTTPClient) BaseURL() string {
	return c.rest.BaseURL()
}

func (c *ClassifierHTTPClient) SendMessage(ctx context.Context, token string, req domain.SendMessageRequest) (*domain.SendMessageResponse, error) {
	var out domain.SendMessageResponse
	if err := c.call(ctx, http.MethodPost, sendMessagePath, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClassifierHTTPClient) InitiateCheckIn(ctx context.Context, token string, req domain.CheckInRequest) (*domain.CheckInResponse, error) {
	var out domain.CheckInResponse
	if err := c.call(ctx, http.MethodPost, initiateCheckInPath, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClassifierHTTPClient) GetContext(ctx context.Context, token, userID string) (*domain.ContextSnapshot, error) {
	path, err := getContextPath(userID)
	if err != nil {
		return nil, err
	}
	var out domain.ContextSnapshot
	if err := c.call(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClassifierHTTPClient) UpdateContext(ctx context.Context, token string, req domain.UpdateContextRequest) (*domain.UpdateContextResponse, error) {
	var out domain.UpdateContextResponse
	if err := c.call(ctx, http.MethodPost, updateContextPath, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClassifierHTTPClient) call(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.rest.NewRequest(ctx, method, path, reader)
	if err != nil {
		slog.Error("backend request build failed", slog.String("path", path), slog.Any("error", err))
		return err
	}

	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", auth.BearerHeader(token))

	slog.Debug("backend request", slog.String("method", method), slog.String("url", req.URL.String()), slog.String("requestId", requestID), slog.Int("tokenLen", len(strings.TrimSpace(token))))

	start := time.Now()
	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("backend request error", slog.String("method", method), slog.String("path", path), slog.String("requestId", requestID), slog.Any("error", err))
		return fmt.Errorf("%w: %w", port.ErrBackendUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	slog.Debug("backend response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("requestId", requestID), slog.Duration("duration", time.Since(start)))

	if res.StatusCode != http.StatusOK {
		payload, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		if err != nil {
			slog.Error("backend response read failed", slog.String("path", path), slog.String("requestId", requestID), slog.Any("error", err))
			return fmt.Errorf("%w: %w", port.ErrBackendUnavailable, err)
		}
		message := extractErrorMessage(payload)
		slog.Warn("backend rejected request", slog.Int("status", res.StatusCode), slog.String("path", path), slog.String("requestId", requestID), slog.String("error", message))
		return &port.BackendError{Status: res.StatusCode, Message: message}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		slog.Error("backend response decode failed", slog.String("path", path), slog.String("requestId", requestID), slog.Any("error", err))
		return fmt.Errorf("%w: %w", port.ErrBackendDecode, err)
	}
	return nil
}

// extractErrorMessage reads the error field of a rejected response body.
func extractErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return port.UnknownBackendError
	}
	field := gjson.GetBytes(body, "error")
	if !field.Exists() || field.Type == gjson.Null {
		return port.UnknownBackendError
	}
	if message := strings.TrimSpace(field.String()); message != "" {
		return message
	}
	return port.UnknownBackendError
}

var _ port.ClassifierBackend = (*ClassifierHTTPClient)(nil)
