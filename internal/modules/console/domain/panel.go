package domain

import (
	"errors"
	"strings"
)

var (
	// ErrMissingInput indicates a required panel field was left empty.
	ErrMissingInput = errors.New("missing required input")
	// ErrInvalidContextUpdate indicates the context update text is not valid JSON.
	ErrInvalidContextUpdate = errors.New("invalid context update json")
	// ErrUnknownPanel is returned when a panel key does not match any console panel.
	ErrUnknownPanel = errors.New("unknown panel")
)

// Panel identifies one console operation.
type Panel string

const (
	PanelSendMessage     Panel = "send-message"
	PanelInitiateCheckIn Panel = "initiate-check-in"
	PanelGetContext      Panel = "get-context"
	PanelUpdateContext   Panel = "update-context"
)

// Panels lists the console panels in tab order.
var Panels = []Panel{PanelSendMessage, PanelInitiateCheckIn, PanelGetContext, PanelUpdateContext}

var panelTitles = map[Panel]string{
	PanelSendMessage:     "Send Message",
	PanelInitiateCheckIn: "Initiate Check-In",
	PanelGetContext:      "Get Context",
	PanelUpdateContext:   "Update Context",
}

var panelActions = map[Panel]string{
	PanelSendMessage:     "Send",
	PanelInitiateCheckIn: "Start Check-In",
	PanelGetContext:      "Retrieve Context",
	PanelUpdateContext:   "Update Context",
}

// ParsePanel resolves a panel key, accepting a few loose spellings.
func ParsePanel(raw string) (Panel, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "_", "-")
	switch key {
	case "send-message", "send", "message":
		return PanelSendMessage, nil
	case "initiate-check-in", "check-in", "checkin":
		return PanelInitiateCheckIn, nil
	case "get-context", "context":
		return PanelGetContext, nil
	case "update-context":
		return PanelUpdateContext, nil
	default:
		return "", ErrUnknownPanel
	}
}

// Title returns the panel heading.
func (p Panel) Title() string {
	return panelTitles[p]
}

// Action returns the label of the panel's action control.
func (p Panel) Action() string {
	return panelActions[p]
}
