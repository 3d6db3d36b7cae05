package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// GetContext renders the active flow and every conversation in the fixed flow buckets.
func (uc *ConsoleUseCase) GetContext(ctx context.Context, session domain.Session) (*domain.PanelResult, error) {
	result := domain.NewPanelResult(domain.PanelGetContext)
	if !session.HasUser() {
		result.Warn("Please enter a User ID.")
		return uc.finish(ctx, session, domain.PanelGetContext, result, nil)
	}

	result.Calls++
	snapshot, err := uc.backend.GetContext(ctx, session.AuthToken, session.UserID)
	if err != nil {
		if rejected(result.Fail, err) {
			return uc.finish(ctx, session, domain.PanelGetContext, result, nil)
		}
		return uc.finish(ctx, session, domain.PanelGetContext, result, err)
	}

	result.Info("Active Flow: " + snapshot.ActiveFlow)
	for _, bucket := range domain.ContextBuckets {
		section := domain.Section{Title: bucket.Title, Empty: bucket.Empty}
		for _, convo := range snapshot.Conversations(bucket.Flow) {
			section.Conversations = append(section.Conversations, domain.NewConversationBlock(convo.ConversationID, convo.Messages))
		}
		result.AddSection(section)
	}
	return uc.finish(ctx, session, domain.PanelGetContext, result, nil)
}

// UpdateContext validates the update text as JSON and patches the conversation context.
func (uc *ConsoleUseCase) UpdateContext(ctx context.Context, session domain.Session, form domain.UpdateContextForm) (*domain.PanelResult, error) {
	result := domain.NewPanelResult(domain.PanelUpdateContext)
	if !session.HasUser() || form.Flow == "" || form.ConversationID == "" || strings.TrimSpace(form.Updates) == "" {
		result.Warn("Please enter User ID, Conversation ID, and Context Updates.")
		return uc.finish(ctx, session, domain.PanelUpdateContext, result, nil)
	}

	updates, err := domain.ParseContextUpdates(form.Updates)
	if err != nil {
		var invalid *domain.InvalidJSONError
		if errors.As(err, &invalid) {
			result.Fail("Invalid JSON format: " + invalid.Detail)
		} else {
			result.Fail("Invalid JSON format: " + err.Error())
		}
		return uc.finish(ctx, session, domain.PanelUpdateContext, result, nil)
	}

	result.Calls++
	updated, err := uc.backend.UpdateContext(ctx, session.AuthToken, domain.UpdateContextRequest{
		UserID:         session.UserID,
		Flow:           form.Flow,
		ConversationID: form.ConversationID,
		ContextUpdates: updates,
	})
	if err != nil {
		if rejected(result.Fail, err) {
			return uc.finish(ctx, session, domain.PanelUpdateContext, result, nil)
		}
		return uc.finish(ctx, session, domain.PanelUpdateContext, result, err)
	}

	result.Success("Context Updated: " + domain.CompactJSON(updated.ContextUpdates))
	return uc.finish(ctx, session, domain.PanelUpdateContext, result, nil)
}
