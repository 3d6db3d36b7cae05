package transport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nicovaras/clare/internal/modules/console/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewActivityWebsocketHandler exposes /ws/activity. Optional query params:
// user restricts the feed to one user id, topics is a comma separated list
// of activity topics (all topics when empty).
func NewActivityWebsocketHandler(hub *infrastructure.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()
		userFilter := strings.TrimSpace(c.QueryParam("user"))
		topics := splitTopics(c.QueryParam("topics"))

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("activity ws upgrade failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		clientID := uuid.NewString()
		client := infrastructure.NewClient(hub, conn, clientID, userFilter, 16)
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		subscribed := topics
		if len(subscribed) == 0 {
			subscribed = []string{"*"}
		}
		client.SendDomainMessage(infrastructure.ConnectedMessage(clientID, subscribed))

		slog.Info("activity ws connected", slog.String("clientId", clientID), slog.String("userFilter", userFilter), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}

func splitTopics(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}
