package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nicovaras/clare/internal/modules/console/application/port"
	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// ConsoleUseCase runs the four console panels against the classifier backend.
// Each call performs one guarded request sequence and reports what to render.
type ConsoleUseCase struct {
	backend     port.ClassifierBackend
	broadcaster port.Broadcaster
	audit       port.AuditPublisher
	now         func() time.Time
	newID       func() string
}

// NewConsoleUseCase wires the backend with optional activity sinks; nil sinks are skipped.
func NewConsoleUseCase(backend port.ClassifierBackend, broadcaster port.Broadcaster, audit port.AuditPublisher) *ConsoleUseCase {
	return &ConsoleUseCase{
		backend:     backend,
		broadcaster: broadcaster,
		audit:       audit,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Execute dispatches a panel action. A non-nil error means the action
// terminated on a transport fault and no result is rendered.
func (uc *ConsoleUseCase) Execute(ctx context.Context, panel domain.Panel, session domain.Session, input domain.PanelInput) (*domain.PanelResult, error) {
	switch panel {
	case domain.PanelSendMessage:
		return uc.SendMessage(ctx, session, input.SendMessageForm())
	case domain.PanelInitiateCheckIn:
		return uc.InitiateCheckIn(ctx, session)
	case domain.PanelGetContext:
		return uc.GetContext(ctx, session)
	case domain.PanelUpdateContext:
		return uc.UpdateContext(ctx, session, input.UpdateContextForm())
	default:
		return nil, domain.ErrUnknownPanel
	}
}

// rejected renders a backend rejection into notices and reports whether err was one.
func rejected(notices func(string), err error) bool {
	var backendErr *port.BackendError
	if errors.As(err, &backendErr) {
		notices("Error: " + backendErr.Message)
		return true
	}
	return false
}

func (uc *ConsoleUseCase) finish(ctx context.Context, session domain.Session, panel domain.Panel, result *domain.PanelResult, err error) (*domain.PanelResult, error) {
	failure := ""
	if err != nil {
		failure = err.Error()
		slog.Error("console action failed", slog.String("panel", string(panel)), slog.String("userId", session.UserID), slog.Any("error", err))
		result = nil
	} else {
		slog.Info("console action completed", slog.String("panel", string(panel)), slog.String("userId", session.UserID), slog.String("level", string(result.Level())), slog.Int("calls", result.Calls))
	}
	uc.record(ctx, session, panel, result, failure)
	return result, err
}

func (uc *ConsoleUseCase) record(ctx context.Context, session domain.Session, panel domain.Panel, result *domain.PanelResult, failure string) {
	event := domain.BuildActivityEvent(uc.newID(), session, panel, result, failure, uc.now())
	if uc.broadcaster != nil {
		uc.broadcaster.Broadcast(ctx, event.Message())
	}
	if uc.audit != nil {
		if err := uc.audit.Publish(ctx, event); err != nil {
			slog.Warn("activity audit publish failed", slog.String("eventId", event.ID), slog.String("panel", string(panel)), slog.Any("error", err))
		}
	}
}
