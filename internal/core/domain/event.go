package domain

import "time"

// StatusEvent is one Kanban status move submitted asynchronously. Processed
// events are kept in an audit trail.
type StatusEvent struct {
	TaskID      string     `json:"task_id" bson:"task_id"`
	Status      TaskStatus `json:"status" bson:"status"`
	Timestamp   time.Time  `json:"timestamp" bson:"timestamp"`
	CompletedOn *time.Time `json:"completed_on,omitempty" bson:"completed_on,omitempty"`
	ActorID     string     `json:"actor_id" bson:"actor_id"`
	Source      string     `json:"source,omitempty" bson:"source,omitempty"`
	ProcessedAt time.Time  `json:"processed_at" bson:"processed_at"`
}
