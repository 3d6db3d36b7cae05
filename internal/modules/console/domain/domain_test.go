package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParsePanel(t *testing.T) {
	cases := map[string]Panel{
		"send-message":      PanelSendMessage,
		" Send_Message ":    PanelSendMessage,
		"checkin":           PanelInitiateCheckIn,
		"initiate-check-in": PanelInitiateCheckIn,
		"context":           PanelGetContext,
		"update_context":    PanelUpdateContext,
	}
	for input, expected := range cases {
		got, err := ParsePanel(input)
		if err != nil {
			t.Fatalf("ParsePanel(%q) unexpected error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParsePanel(%q) expected %q got %q", input, expected, got)
		}
	}

	if _, err := ParsePanel("delete-everything"); !errors.Is(err, ErrUnknownPanel) {
		t.Fatalf("expected ErrUnknownPanel, got %v", err)
	}
}

func TestParseContextUpdates(t *testing.T) {
	raw, err := ParseContextUpdates("  {\"mood\": \"good\",\n \"score\": 3}  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"mood":"good","score":3}` {
		t.Fatalf("expected compacted json, got %s", raw)
	}

	_, err = ParseContextUpdates("not valid json")
	if !errors.Is(err, ErrInvalidContextUpdate) {
		t.Fatalf("expected ErrInvalidContextUpdate, got %v", err)
	}
	var invalid *InvalidJSONError
	if !errors.As(err, &invalid) || invalid.Detail == "" {
		t.Fatalf("expected parser detail, got %v", err)
	}
}

func TestPanelInputDefaultsFlows(t *testing.T) {
	in := PanelInput{ConversationID: "  c1 "}
	if got := in.SendMessageForm().Flow; got != "normal" {
		t.Fatalf("expected default send flow normal, got %s", got)
	}
	form := in.UpdateContextForm()
	if form.Flow != FlowNormal {
		t.Fatalf("expected default update flow normal, got %s", form.Flow)
	}
	if form.ConversationID != "c1" {
		t.Fatalf("expected trimmed conversation id, got %q", form.ConversationID)
	}
}

func TestContextSnapshotFindConversation(t *testing.T) {
	snapshot := &ContextSnapshot{
		ActiveFlow: FlowNormal,
		Contexts: map[string][]Conversation{
			FlowNormal: {
				{ConversationID: "a", Messages: json.RawMessage(`[]`)},
				{ConversationID: "b", Messages: json.RawMessage(`[{"role":"user","content":"hi"}]`)},
			},
		},
	}

	convo, ok := snapshot.FindConversation(FlowNormal, " b ")
	if !ok {
		t.Fatal("expected conversation b")
	}
	if !strings.Contains(string(convo.Messages), "hi") {
		t.Fatalf("unexpected messages: %s", convo.Messages)
	}
	if _, ok := snapshot.FindConversation(FlowCheckIn, "b"); ok {
		t.Fatal("expected no match in check-in bucket")
	}

	var empty *ContextSnapshot
	if got := empty.Conversations(FlowNormal); got != nil {
		t.Fatalf("expected nil conversations, got %v", got)
	}
}

func TestPanelResultLevelAndTexts(t *testing.T) {
	result := NewPanelResult(PanelSendMessage)
	result.Success("Response: ok")
	result.Info("Category: support")
	if got := result.Level(); got != LevelSuccess {
		t.Fatalf("expected success level, got %s", got)
	}

	result.AddSection(Section{Title: "Conversation History", Notices: []Notice{{Level: LevelError, Text: "Error: gone"}}})
	result.AddSection(Section{Title: "Empty", Empty: "nothing here"})
	if got := result.Level(); got != LevelError {
		t.Fatalf("expected error level, got %s", got)
	}

	texts := result.Texts()
	expected := []string{"Response: ok", "Category: support", "Error: gone", "nothing here"}
	if strings.Join(texts, "|") != strings.Join(expected, "|") {
		t.Fatalf("unexpected texts: %v", texts)
	}
}

func TestPrettyJSON(t *testing.T) {
	pretty := PrettyJSON([]byte(`[{"role":"user","content":"hi"}]`))
	if !strings.Contains(pretty, "\n") || !strings.Contains(pretty, `"content": "hi"`) {
		t.Fatalf("expected indented json, got %s", pretty)
	}
	if got := PrettyJSON(nil); got != "null" {
		t.Fatalf("expected null for empty input, got %s", got)
	}
	if got := PrettyJSON([]byte("oops")); got != "oops" {
		t.Fatalf("expected raw fallback, got %s", got)
	}
	if got := CompactJSON([]byte("{\n  \"a\": 1\n}")); got != `{"a":1}` {
		t.Fatalf("expected compact json, got %s", got)
	}
}

func TestBuildActivityEvent(t *testing.T) {
	at := time.Date(2026, time.October, 19, 10, 0, 0, 0, time.FixedZone("x", 3600))
	result := NewPanelResult(PanelGetContext)
	result.Calls = 1
	result.Info("Active Flow: normal")

	event := BuildActivityEvent(" evt-1 ", NewSession(" 123 ", "secret"), PanelGetContext, result, "", at)
	if event.ID != "evt-1" || event.UserID != "123" {
		t.Fatalf("unexpected identifiers: %+v", event)
	}
	if event.Level != LevelInfo || event.Calls != 1 {
		t.Fatalf("unexpected level/calls: %+v", event)
	}
	if event.Summary != "Active Flow: normal" {
		t.Fatalf("unexpected summary: %s", event.Summary)
	}
	if !event.Timestamp.Equal(at) || event.Timestamp.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %s", event.Timestamp)
	}

	msg := event.Message()
	if msg.Topic != "activity.get-context" {
		t.Fatalf("unexpected topic: %s", msg.Topic)
	}
	if msg.Metadata["userId"] != "123" || msg.Metadata["calls"] != "1" {
		t.Fatalf("unexpected metadata: %v", msg.Metadata)
	}
	encoded, _ := json.Marshal(msg)
	if strings.Contains(string(encoded), "secret") {
		t.Fatalf("token leaked into activity message: %s", encoded)
	}

	failed := BuildActivityEvent("evt-2", NewSession("123", ""), PanelSendMessage, nil, "backend unreachable", at)
	if failed.Level != LevelError || failed.Summary != "backend unreachable" {
		t.Fatalf("unexpected failed event: %+v", failed)
	}
}
