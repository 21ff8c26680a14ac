// Package events publishes domain changes for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	CatCreated         = "cat.created"
	CatSalaryUpdated   = "cat.salary_updated"
	CatDeleted         = "cat.deleted"
	MissionCreated     = "mission.created"
	MissionAssigned    = "mission.assigned"
	MissionCompleted   = "mission.completed"
	MissionDeleted     = "mission.deleted"
	TargetCreated      = "target.created"
	TargetNotesUpdated = "target.notes_updated"
	TargetCompleted    = "target.completed"
	TargetDeleted      = "target.deleted"
)

type Event struct {
	ID         string
	Type       string
	EntityID   int64
	OccurredAt time.Time
	Data       any
}

// New stamps an event with a fresh id and the current time.
func New(eventType string, entityID int64, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Values flattens the event into stream fields.
func (e Event) Values() (map[string]any, error) {
	values := map[string]any{
		"id":          e.ID,
		"type":        e.Type,
		"entity_id":   strconv.FormatInt(e.EntityID, 10),
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
	if e.Data != nil {
		data, err := json.Marshal(e.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", e.Type, err)
		}
		values["data"] = string(data)
	}
	return values, nil
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// RedisPublisher appends events to a Redis stream with XADD.
type RedisPublisher struct {
	rdb    *redis.Client
	stream string
}

func NewRedisPublisher(rdb *redis.Client, stream string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, stream: stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	values, err := event.Values()
	if err != nil {
		return err
	}
	_, err = p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
