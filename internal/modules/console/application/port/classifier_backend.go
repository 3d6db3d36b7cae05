package port

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// UnknownBackendError is rendered when a rejected response carries no usable error field.
const UnknownBackendError = "Unknown error"

var (
	// ErrBackendRejected indicates the backend answered with a non-200 status.
	ErrBackendRejected = errors.New("backend rejected request")
	// ErrBackendUnavailable indicates the request never produced a response.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrBackendDecode indicates a 200 response whose body was not the expected JSON.
	ErrBackendDecode = errors.New("backend response decode failed")
)

// BackendError is the error-shape body of a non-200 response.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

func (e *BackendError) Unwrap() error {
	return ErrBackendRejected
}

// ClassifierBackend is the message classifier service consumed by the console.
type ClassifierBackend interface {
	SendMessage(ctx context.Context, token string, req domain.SendMessageRequest) (*domain.SendMessageResponse, error)
	InitiateCheckIn(ctx context.Context, token string, req domain.CheckInRequest) (*domain.CheckInResponse, error)
	GetContext(ctx context.Context, token, userID string) (*domain.ContextSnapshot, error)
	UpdateContext(ctx context.Context, token string, req domain.UpdateContextRequest) (*domain.UpdateContextResponse, error)
}
