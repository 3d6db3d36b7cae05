package domain

import "strings"

// Session carries the operator inputs shared by every panel: the user the
// backend calls act on and the bearer token forwarded with each call.
type Session struct {
	UserID    string
	AuthToken string
}

// NewSession trims both inputs so blank values count as missing.
func NewSession(userID, authToken string) Session {
	return Session{
		UserID:    strings.TrimSpace(userID),
		AuthToken: strings.TrimSpace(authToken),
	}
}

// HasUser reports whether a user identifier was supplied.
func (s Session) HasUser() bool {
	return s.UserID != ""
}

// PanelInput is the union of every panel's form fields. Each panel reads
// only the fields it owns.
type PanelInput struct {
	Message        string `json:"message" form:"message"`
	SendFlow       string `json:"sendFlow" form:"send_flow"`
	UpdateFlow     string `json:"updateFlow" form:"update_flow"`
	ConversationID string `json:"conversationId" form:"conversation_id"`
	ContextUpdates string `json:"contextUpdates" form:"context_updates"`
}

// SendMessageForm holds the Send Message panel fields.
type SendMessageForm struct {
	Message string
	Flow    string
}

// UpdateContextForm holds the Update Context panel fields.
type UpdateContextForm struct {
	Flow           string
	ConversationID string
	Updates        string
}

// SendMessageForm projects the input onto the Send Message panel.
func (in PanelInput) SendMessageForm() SendMessageForm {
	flow := strings.TrimSpace(in.SendFlow)
	if flow == "" {
		flow = SendFlowOptions[0]
	}
	return SendMessageForm{Message: in.Message, Flow: flow}
}

// UpdateContextForm projects the input onto the Update Context panel.
func (in PanelInput) UpdateContextForm() UpdateContextForm {
	flow := strings.TrimSpace(in.UpdateFlow)
	if flow == "" {
		flow = UpdateFlowOptions[0]
	}
	return UpdateContextForm{
		Flow:           flow,
		ConversationID: strings.TrimSpace(in.ConversationID),
		Updates:        in.ContextUpdates,
	}
}
