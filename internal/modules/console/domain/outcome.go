package domain

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Level classifies a notice the way the page colours it.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

var levelRank = map[Level]int{
	LevelInfo:    0,
	LevelSuccess: 1,
	LevelWarning: 2,
	LevelError:   3,
}

// Notice is a single line of panel feedback.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// ConversationBlock renders one conversation with its messages as indented JSON.
type ConversationBlock struct {
	ConversationID string `json:"conversationId"`
	Messages       string `json:"messages"`
}

// Section groups output under a heading. Empty is shown when the section has
// no conversations and no notices.
type Section struct {
	Title         string              `json:"title"`
	Notices       []Notice            `json:"notices,omitempty"`
	Conversations []ConversationBlock `json:"conversations,omitempty"`
	Empty         string              `json:"empty,omitempty"`
}

// PanelResult is everything a panel renders after one action.
type PanelResult struct {
	Panel    Panel     `json:"panel"`
	Notices  []Notice  `json:"notices"`
	Sections []Section `json:"sections,omitempty"`
	// Calls counts the backend requests issued while producing the result.
	Calls int `json:"calls"`
}

// NewPanelResult starts an empty result for the panel.
func NewPanelResult(panel Panel) *PanelResult {
	return &PanelResult{Panel: panel, Notices: []Notice{}}
}

func (r *PanelResult) add(level Level, text string) {
	r.Notices = append(r.Notices, Notice{Level: level, Text: text})
}

// Success appends a success notice.
func (r *PanelResult) Success(text string) { r.add(LevelSuccess, text) }

// Info appends an info notice.
func (r *PanelResult) Info(text string) { r.add(LevelInfo, text) }

// Warn appends a warning notice.
func (r *PanelResult) Warn(text string) { r.add(LevelWarning, text) }

// Fail appends an error notice.
func (r *PanelResult) Fail(text string) { r.add(LevelError, text) }

// AddSection appends a section.
func (r *PanelResult) AddSection(section Section) {
	r.Sections = append(r.Sections, section)
}

// Level reports the most severe level across notices and sections.
func (r *PanelResult) Level() Level {
	level := LevelInfo
	raise := func(candidate Level) {
		if levelRank[candidate] > levelRank[level] {
			level = candidate
		}
	}
	for _, n := range r.Notices {
		raise(n.Level)
	}
	for _, s := range r.Sections {
		for _, n := range s.Notices {
			raise(n.Level)
		}
	}
	return level
}

// Texts flattens every notice text in render order, sections included.
func (r *PanelResult) Texts() []string {
	texts := make([]string, 0, len(r.Notices))
	for _, n := range r.Notices {
		texts = append(texts, n.Text)
	}
	for _, s := range r.Sections {
		for _, n := range s.Notices {
			texts = append(texts, n.Text)
		}
		if len(s.Notices) == 0 && len(s.Conversations) == 0 && s.Empty != "" {
			texts = append(texts, s.Empty)
		}
	}
	return texts
}

// NewConversationBlock formats raw conversation messages for display.
func NewConversationBlock(conversationID string, messages json.RawMessage) ConversationBlock {
	return ConversationBlock{ConversationID: conversationID, Messages: PrettyJSON(messages)}
}

// PrettyJSON indents raw JSON for display and falls back to the raw text when
// it is not valid JSON.
func PrettyJSON(raw []byte) string {
	if len(raw) == 0 {
		return "null"
	}
	if !gjson.ValidBytes(raw) {
		return string(raw)
	}
	return strings.TrimSpace(gjson.GetBytes(raw, "@pretty").Raw)
}

// CompactJSON renders raw JSON on a single line.
func CompactJSON(raw []byte) string {
	if len(raw) == 0 {
		return "null"
	}
	if !gjson.ValidBytes(raw) {
		return string(raw)
	}
	return gjson.GetBytes(raw, "@ugly").Raw
}
