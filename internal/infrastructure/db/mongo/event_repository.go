package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

// InsertEvent appends a processed status move to the status_events audit
// collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.StatusEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"task_id":      event.TaskID,
		"status":       string(event.Status),
		"timestamp":    event.Timestamp.UTC(),
		"actor_id":     event.ActorID,
		"source":       event.Source,
		"processed_at": time.Now().UTC(),
	}
	if event.CompletedOn != nil {
		doc["completed_on"] = event.CompletedOn.UTC()
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
