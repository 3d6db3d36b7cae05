package domain

import (
	"encoding/json"
	"strings"
)

// SendMessageRequest is the body of POST /send-message.
type SendMessageRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// SendMessageResponse is the success payload of POST /send-message.
type SendMessageResponse struct {
	UserID         string `json:"userId,omitempty"`
	Response       string `json:"response"`
	Category       string `json:"category"`
	Flow           string `json:"flow"`
	ConversationID string `json:"conversationId"`
}

// CheckInRequest is the body of POST /initiate-check-in.
type CheckInRequest struct {
	UserID string `json:"userId"`
}

// CheckInResponse is the success payload of POST /initiate-check-in.
type CheckInResponse struct {
	UserID         string `json:"userId,omitempty"`
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// Conversation is one backend conversation. Messages stay raw because context
// updates may store arbitrary shapes.
type Conversation struct {
	ConversationID string          `json:"conversationId"`
	Messages       json.RawMessage `json:"messages"`
}

// ContextSnapshot is the success payload of GET /get-context/{userId}.
type ContextSnapshot struct {
	UserID     string                    `json:"userId,omitempty"`
	ActiveFlow string                    `json:"activeFlow"`
	Contexts   map[string][]Conversation `json:"contexts"`
}

// Conversations returns the conversations stored under the flow bucket.
func (s *ContextSnapshot) Conversations(flow string) []Conversation {
	if s == nil || s.Contexts == nil {
		return nil
	}
	return s.Contexts[flow]
}

// FindConversation searches the flow bucket for a conversation identifier.
func (s *ContextSnapshot) FindConversation(flow, conversationID string) (Conversation, bool) {
	target := strings.TrimSpace(conversationID)
	for _, convo := range s.Conversations(flow) {
		if convo.ConversationID == target {
			return convo, true
		}
	}
	return Conversation{}, false
}

// UpdateContextRequest is the body of POST /update-context.
type UpdateContextRequest struct {
	UserID         string          `json:"userId"`
	Flow           string          `json:"flow"`
	ConversationID string          `json:"conversationId"`
	ContextUpdates json.RawMessage `json:"contextUpdates"`
}

// UpdateContextResponse is the success payload of POST /update-context.
type UpdateContextResponse struct {
	UserID         string          `json:"userId,omitempty"`
	Flow           string          `json:"flow,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	Message        string          `json:"message,omitempty"`
	ContextUpdates json.RawMessage `json:"contextUpdates"`
}
