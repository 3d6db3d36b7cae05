package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nicovaras/clare/internal/modules/console/application/port"
	"github.com/nicovaras/clare/internal/modules/console/domain"
	"github.com/nicovaras/clare/internal/shared/auth"
	"github.com/nicovaras/clare/internal/shared/httputil"
)

const pageTemplate = "console.html"

// PanelExecutor runs one console panel action.
type PanelExecutor interface {
	Execute(ctx context.Context, panel domain.Panel, session domain.Session, input domain.PanelInput) (*domain.PanelResult, error)
}

// SessionDefaults prefill the session bar on first load.
type SessionDefaults struct {
	UserID    string
	AuthToken string
}

// ConsoleHandler serves the console page, its form posts and the JSON panel API.
type ConsoleHandler struct {
	executor  PanelExecutor
	inspector *auth.TokenInspector
	defaults  SessionDefaults
	baseURL   string
	mapper    *httputil.ErrorMapper
}

func NewConsoleHandler(executor PanelExecutor, inspector *auth.TokenInspector, defaults SessionDefaults, baseURL string) *ConsoleHandler {
	if inspector == nil {
		inspector = auth.NewTokenInspector()
	}
	return &ConsoleHandler{
		executor:  executor,
		inspector: inspector,
		defaults:  defaults,
		baseURL:   baseURL,
		mapper:    consoleErrorMapper(),
	}
}

func consoleErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(domain.ErrUnknownPanel, http.StatusNotFound, "unknown panel").
		WithMapping(port.ErrBackendUnavailable, http.StatusBadGateway, "backend unreachable").
		WithMapping(port.ErrBackendDecode, http.StatusBadGateway, "backend returned an unexpected response").
		WithTimeoutMessage("backend timeout")
}

// Page renders the console with the session bar prefilled from the query or defaults.
func (h *ConsoleHandler) Page(c echo.Context) error {
	userID := c.QueryParam("user")
	if strings.TrimSpace(userID) == "" {
		userID = h.defaults.UserID
	}
	token := c.QueryParam("token")
	if strings.TrimSpace(token) == "" {
		token = h.defaults.AuthToken
	}
	session := domain.NewSession(userID, token)
	view := newPageView(session, domain.PanelInput{}, h.baseURL, describeToken(h.inspector, session.AuthToken))
	return c.Render(http.StatusOK, pageTemplate, view)
}

// SubmitForm runs the panel named in the path and re-renders the page with
// every submitted field retained.
func (h *ConsoleHandler) SubmitForm(c echo.Context) error {
	panel, err := domain.ParsePanel(c.Param("panel"))
	if err != nil {
		return h.mapper.HTTPError(err)
	}

	session, input := formFields(c)
	result, err := h.executor.Execute(c.Request().Context(), panel, session, input)
	if err != nil {
		return h.fail(c, panel, err)
	}

	view := newPageView(session, input, h.baseURL, describeToken(h.inspector, session.AuthToken)).withResult(result)
	return c.Render(http.StatusOK, pageTemplate, view)
}

func formFields(c echo.Context) (domain.Session, domain.PanelInput) {
	session := domain.NewSession(c.FormValue("user_id"), c.FormValue("auth_token"))
	input := domain.PanelInput{
		Message:        c.FormValue("message"),
		SendFlow:       c.FormValue("send_flow"),
		UpdateFlow:     c.FormValue("update_flow"),
		ConversationID: c.FormValue("conversation_id"),
		ContextUpdates: c.FormValue("context_updates"),
	}
	return session, input
}

type panelRequest struct {
	UserID    string `json:"userId"`
	AuthToken string `json:"authToken"`
	domain.PanelInput
}

// SubmitJSON runs a panel from a JSON body. The token comes from the
// Authorization header, falling back to the authToken field.
func (h *ConsoleHandler) SubmitJSON(c echo.Context) error {
	panel, err := domain.ParsePanel(c.Param("panel"))
	if err != nil {
		return h.mapper.HTTPError(err)
	}

	var req panelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	token := auth.ExtractBearerToken(c.Request())
	if token == "" {
		token = req.AuthToken
	}

	result, err := h.executor.Execute(c.Request().Context(), panel, domain.NewSession(req.UserID, token), req.PanelInput)
	if err != nil {
		return h.fail(c, panel, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Health reports liveness and the configured backend.
func (h *ConsoleHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "backend": h.baseURL})
}

// HTTPErrorHandler renders failed form posts as the console page with an
// error banner and the submitted fields retained. Other routes fall through
// to next.
func (h *ConsoleHandler) HTTPErrorHandler(next echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed || !strings.HasPrefix(c.Request().URL.Path, "/panels/") {
			next(err, c)
			return
		}

		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) {
			httpErr = h.mapper.HTTPError(err)
		}
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}

		session, input := formFields(c)
		view := newPageView(session, input, h.baseURL, describeToken(h.inspector, session.AuthToken)).
			withError(domain.Panel(c.Param("panel")), message)
		if renderErr := c.Render(httpErr.Code, pageTemplate, view); renderErr != nil {
			slog.Error("error page render failed", slog.Any("error", renderErr))
			next(err, c)
		}
	}
}

func (h *ConsoleHandler) fail(c echo.Context, panel domain.Panel, err error) error {
	httpErr := h.mapper.HTTPError(err)
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if errors.Is(err, port.ErrBackendUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		slog.Error("console action terminated", slog.String("panel", string(panel)), slog.Int("status", httpErr.Code), slog.String("reqID", requestID), slog.Any("error", err))
	} else {
		slog.Warn("console action failed", slog.String("panel", string(panel)), slog.Int("status", httpErr.Code), slog.String("reqID", requestID), slog.Any("error", err))
	}
	return httpErr
}
