package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

const conversationHistoryTitle = "Conversation History"

// SendMessage posts the message, renders the classification and then fetches
// the user's context to show the conversation the message landed in.
func (uc *ConsoleUseCase) SendMessage(ctx context.Context, session domain.Session, form domain.SendMessageForm) (*domain.PanelResult, error) {
	result := domain.NewPanelResult(domain.PanelSendMessage)
	if !session.HasUser() || strings.TrimSpace(form.Message) == "" {
		result.Warn("Please enter both User ID and Message.")
		return uc.finish(ctx, session, domain.PanelSendMessage, result, nil)
	}

	result.Calls++
	sent, err := uc.backend.SendMessage(ctx, session.AuthToken, domain.SendMessageRequest{
		UserID:  session.UserID,
		Message: form.Message,
	})
	if err != nil {
		if rejected(result.Fail, err) {
			return uc.finish(ctx, session, domain.PanelSendMessage, result, nil)
		}
		return uc.finish(ctx, session, domain.PanelSendMessage, result, err)
	}

	result.Success("Response: " + sent.Response)
	result.Info("Category: " + sent.Category)
	result.Info("Flow: " + sent.Flow)
	result.Info("Conversation ID: " + sent.ConversationID)

	history := domain.Section{Title: conversationHistoryTitle}
	result.Calls++
	snapshot, err := uc.backend.GetContext(ctx, session.AuthToken, session.UserID)
	if err != nil {
		if !rejected(func(text string) {
			history.Notices = append(history.Notices, domain.Notice{Level: domain.LevelError, Text: text})
		}, err) {
			return uc.finish(ctx, session, domain.PanelSendMessage, result, err)
		}
		result.AddSection(history)
		return uc.finish(ctx, session, domain.PanelSendMessage, result, nil)
	}

	if convo, ok := snapshot.FindConversation(sent.Flow, sent.ConversationID); ok {
		history.Conversations = append(history.Conversations, domain.NewConversationBlock(convo.ConversationID, convo.Messages))
	} else {
		history.Notices = append(history.Notices, domain.Notice{
			Level: domain.LevelWarning,
			Text:  fmt.Sprintf("Conversation %s not found in %s flow.", sent.ConversationID, sent.Flow),
		})
	}
	result.AddSection(history)
	return uc.finish(ctx, session, domain.PanelSendMessage, result, nil)
}
