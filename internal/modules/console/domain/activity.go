package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	SystemEntity   = "system"
	ActivityEntity = "activity"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
)

// Message is the envelope pushed to activity feed subscribers.
type Message struct {
	Topic     string            `json:"topic"`
	Entity    string            `json:"entity"`
	Action    string            `json:"action"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Data      any               `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ActivityEvent records one panel action. It never carries the auth token.
type ActivityEvent struct {
	ID        string    `json:"id"`
	Panel     Panel     `json:"panel"`
	UserID    string    `json:"userId"`
	Level     Level     `json:"level"`
	Calls     int       `json:"calls"`
	Summary   string    `json:"summary"`
	Failure   string    `json:"failure,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityTopic returns the feed topic for a panel.
func ActivityTopic(panel Panel) string {
	return buildTopic(ActivityEntity, string(panel))
}

// ActivityTopics lists the feed topics of every panel.
func ActivityTopics() []string {
	topics := make([]string, 0, len(Panels))
	for _, p := range Panels {
		topics = append(topics, ActivityTopic(p))
	}
	return topics
}

// BuildActivityEvent summarises a panel result. failure is the transport
// error text when the action terminated without a result.
func BuildActivityEvent(id string, session Session, panel Panel, result *PanelResult, failure string, at time.Time) *ActivityEvent {
	event := &ActivityEvent{
		ID:        strings.TrimSpace(id),
		Panel:     panel,
		UserID:    session.UserID,
		Level:     LevelError,
		Failure:   strings.TrimSpace(failure),
		Timestamp: at.UTC(),
	}
	if result != nil {
		event.Level = result.Level()
		event.Calls = result.Calls
		if texts := result.Texts(); len(texts) > 0 {
			event.Summary = texts[0]
		}
	}
	if event.Summary == "" && event.Failure != "" {
		event.Summary = event.Failure
	}
	return event
}

// Message wraps the event for the feed.
func (e *ActivityEvent) Message() *Message {
	if e == nil {
		return nil
	}
	metadata := map[string]string{
		"eventId": e.ID,
		"level":   string(e.Level),
		"calls":   strconv.Itoa(e.Calls),
	}
	if e.UserID != "" {
		metadata["userId"] = e.UserID
	}
	return &Message{
		Topic:     ActivityTopic(e.Panel),
		Entity:    ActivityEntity,
		Action:    string(e.Panel),
		Metadata:  metadata,
		Data:      e,
		Timestamp: e.Timestamp,
	}
}

func buildTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
