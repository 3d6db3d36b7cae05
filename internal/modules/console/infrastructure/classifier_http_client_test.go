package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicovaras/clare/internal/modules/console/application/port"
	"github.com/nicovaras/clare/internal/modules/console/domain"
)

func TestNewClassifierHTTPClientDefaults(t *testing.T) {
	client := NewClassifierHTTPClient("  ", 0, nil)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	client = NewClassifierHTTPClient("http://backend:3000/api/", time.Second, nil)
	assert.Equal(t, "http://backend:3000/api", client.BaseURL())
}

func TestSendMessageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/send-message", r.URL.Path)
			assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

			var body domain.SendMessageRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, domain.SendMessageRequest{UserID: "123", Message: "hello"}, body)

			_, _ = w.Write([]byte(`{"userId":"123","response":"ok","category":"support","flow":"normal","conversationId":"c1"}`))
		},
	))
	defer server.Close()

	client := NewClassifierHTTPClient(server.URL+"/api", 5*time.Second, nil)
	client.requestID = func() string { return "req-1" }

	res, err := client.SendMessage(context.Background(), "abc123", domain.SendMessageRequest{UserID: "123", Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Response)
	assert.Equal(t, "support", res.Category)
	assert.Equal(t, "normal", res.Flow)
	assert.Equal(t, "c1", res.ConversationID)
}

func TestGetContextEscapesUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/get-context/a%2Fb%20c", r.URL.EscapedPath())
			assert.Empty(t, r.Header.Get("Content-Type"))

			_, _ = w.Write([]byte(`{"activeFlow":"check-in","contexts":{"normal":[],"check-in":[{"conversationId":"ci-1","messages":[{"role":"system","content":"Hi!"}]}]}}`))
		},
	))
	defer server.Close()

	client := NewClassifierHTTPClient(server.URL, 5*time.Second, nil)

	snapshot, err := client.GetContext(context.Background(), "abc123", "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "check-in", snapshot.ActiveFlow)
	assert.Empty(t, snapshot.Conversations("normal"))
	convo, ok := snapshot.FindConversation("check-in", "ci-1")
	require.True(t, ok)
	assert.JSONEq(t, `[{"role":"system","content":"Hi!"}]`, string(convo.Messages))
}

func TestGetContextDecodesLargeHistory(t *testing.T) {
	content := strings.Repeat("x", 3<<19)
	body := `{"activeFlow":"normal","contexts":{"normal":[{"conversationId":"c1","messages":[{"role":"user","content":"` + content + `"}]}]}}`
	require.Greater(t, len(body), 1<<20)

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		},
	))
	defer server.Close()

	client := NewClassifierHTTPClient(server.URL, 5*time.Second, nil)

	snapshot, err := client.GetContext(context.Background(), "abc123", "123")
	require.NoError(t, err)
	convo, ok := snapshot.FindConversation("normal", "c1")
	require.True(t, ok)
	var messages []map[string]string
	require.NoError(t, json.Unmarshal(convo.Messages, &messages))
	require.Len(t, messages, 1)
	assert.Len(t, messages[0]["content"], len(content))
}

func TestRejectedResponseWithOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"` + strings.Repeat("e", maxErrorBodyBytes) + `"}`))
		},
	))
	defer server.Close()

	client := NewClassifierHTTPClient(server.URL, 5*time.Second, nil)

	_, err := client.InitiateCheckIn(context.Background(), "abc123", domain.CheckInRequest{UserID: "123"})
	var backendErr *port.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusInternalServerError, backendErr.Status)
	assert.Equal(t, port.UnknownBackendError, backendErr.Message)
}

func TestGetContextRequiresUserID(t *testing.T) {
	client := NewClassifierHTTPClient("http://unused", time.Second, nil)

	_, err := client.GetContext(context.Background(), "abc123", " ")
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestUpdateContextSendsRawUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/update-context", r.URL.Path)

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "check-in", body["flow"])
			assert.Equal(t, "c9", body["conversationId"])
			assert.Equal(t, map[string]any{"mood": "calm"}, body["contextUpdates"])

			_, _ = w.Write([]byte(`{"message":"Context updated successfully","contextUpdates":{"mood":"calm"}}`))
		},
	))
	defer server.Close()

	client := NewClassifierHTTPClient(server.URL, 5*time.Second, nil)

	res, err := client.UpdateContext(context.Background(), "abc123", domain.UpdateContextRequest{
		UserID:         "123",
		Flow:           "check-in",
		ConversationID: "c9",
		ContextUpdates: json.RawMessage(`{"mood":"calm"}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"calm"}`, string(res.ContextUpdates))
}

func TestRejectedResponses(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "error field", status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`, message: "rate limited"},
		{name: "missing field", status: http.StatusBadRequest, body: `{"detail":"nope"}`, message: "Unknown error"},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, message: "Unknown error"},
		{name: "empty field", status: http.StatusInternalServerError, body: `{"error":"  "}`, message: "Unknown error"},
		{name: "null field", status: http.StatusNotFound, body: `{"error":null}`, message: "Unknown error"},
		{name: "created is not success", status: http.StatusCreated, body: `{"message":"hi","conversationId":"c1"}`, message: "Unknown error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tc.status)
					_, _ = w.Write([]byte(tc.body))
				},
			))
			defer server.Close()

			client := NewClassifierHTTPClient(server.URL, 5*time.Second, nil)

			res, err := client.InitiateCheckIn(context.Background(), "abc123", domain.CheckInRequest{UserID: "123"})
			assert.Nil(t, res)
			require.ErrorIs(t, err, port.ErrBackendRejected)

			var backendErr *port.BackendError
			require.True(t, errors.As(err, &backendErr))
			assert.Equal(t, tc.status, backendErr.Status)
			assert.Equal(t, tc.message, backendErr.Message)
		})
	}
}

func TestDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	))
	defer server.Close()

	client := NewClassifierHTTPClient(server.URL, 5*time.Second, nil)

	_, err := client.InitiateCheckIn(context.Background(), "abc123", domain.CheckInRequest{UserID: "123"})
	assert.ErrorIs(t, err, port.ErrBackendDecode)
	assert.NotErrorIs(t, err, port.ErrBackendRejected)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClassifierHTTPClient(url, time.Second, nil)

	_, err := client.SendMessage(context.Background(), "abc123", domain.SendMessageRequest{UserID: "123", Message: "hi"})
	assert.ErrorIs(t, err, port.ErrBackendUnavailable)
}

func TestExtractErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", extractErrorMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "42", extractErrorMessage([]byte(`{"error":42}`)))
	assert.Equal(t, port.UnknownBackendError, extractErrorMessage(nil))
}
