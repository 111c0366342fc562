// Package events delivers user change notifications to external systems.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

// Publisher sends a batch of events. Implementations are called from a
// single goroutine.
type Publisher interface {
	Publish(ctx context.Context, batch []models.UserEvent) error
	Close() error
}

// LogPublisher writes events to the process logger. It is used when no
// broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, batch []models.UserEvent) error {
	for _, event := range batch {
		logger.Log.Infow("user event",
			"type", event.Type,
			"userId", event.UserID,
			"occurredAt", event.OccurredAt,
		)
	}

	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

func encode(event models.UserEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("in internal/events/events.go/encode(): error while `json.Marshal()` calling: %w", err)
	}

	return body, nil
}
