package services

import (
	"context"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/4oBuko/spy-cat-agency-records/internal/events"
	"github.com/4oBuko/spy-cat-agency-records/internal/models"
)

type Option func(*notifier)

// WithPublisher sends domain events to p after each successful write.
func WithPublisher(p events.Publisher) Option {
	return func(n *notifier) { n.publisher = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(n *notifier) { n.logger = logger }
}

// notifier publishes events on a best-effort basis: the write already
// happened, so a broker failure is logged and not returned to the caller.
type notifier struct {
	publisher events.Publisher
	logger    *zap.Logger
}

func newNotifier(opts []Option) notifier {
	n := notifier{
		publisher: events.NopPublisher{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

func (n notifier) notify(ctx context.Context, eventType string, entityID int64, data any) {
	if err := n.publisher.Publish(ctx, events.New(eventType, entityID, data)); err != nil {
		n.logger.Warn("failed to publish event",
			zap.String("type", eventType),
			zap.Int64("entity_id", entityID),
			zap.Error(err))
	}
}

var notesPolicy = bluemonday.StrictPolicy()

// eventNotes is the notes text as carried in events, where consumers may
// render it. The stored record keeps the notes exactly as written.
func eventNotes(notes string) string {
	return notesPolicy.Sanitize(notes)
}

func eventTarget(t models.Target) models.Target {
	t.Notes = eventNotes(t.Notes)
	return t
}

func eventMission(m models.Mission) models.Mission {
	targets := make([]models.Target, len(m.Targets))
	for i, t := range m.Targets {
		targets[i] = eventTarget(t)
	}
	m.Targets = targets
	return m
}
