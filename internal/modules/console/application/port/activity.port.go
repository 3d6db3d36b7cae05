package port

import (
	"context"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// Broadcaster pushes messages to activity feed subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// AuditPublisher records activity events outside the process.
type AuditPublisher interface {
	Publish(ctx context.Context, event *domain.ActivityEvent) error
	Close() error
}
