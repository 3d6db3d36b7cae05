package usecase

import (
	"context"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// InitiateCheckIn starts a check-in conversation for the session user.
func (uc *ConsoleUseCase) InitiateCheckIn(ctx context.Context, session domain.Session) (*domain.PanelResult, error) {
	result := domain.NewPanelResult(domain.PanelInitiateCheckIn)
	if !session.HasUser() {
		result.Warn("Please enter a User ID.")
		return uc.finish(ctx, session, domain.PanelInitiateCheckIn, result, nil)
	}

	result.Calls++
	started, err := uc.backend.InitiateCheckIn(ctx, session.AuthToken, domain.CheckInRequest{UserID: session.UserID})
	if err != nil {
		if rejected(result.Fail, err) {
			return uc.finish(ctx, session, domain.PanelInitiateCheckIn, result, nil)
		}
		return uc.finish(ctx, session, domain.PanelInitiateCheckIn, result, err)
	}

	result.Success("Check-In Started: " + started.Message)
	result.Info("Conversation ID: " + started.ConversationID)
	return uc.finish(ctx, session, domain.PanelInitiateCheckIn, result, nil)
}
