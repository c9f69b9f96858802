package handler

import "time"

type statusEventRequest struct {
	TaskID      string     `json:"task_id"      validate:"required"`
	Status      string     `json:"status"       validate:"required,taskstatus"`
	Timestamp   time.Time  `json:"timestamp"    validate:"required"`
	CompletedOn *time.Time `json:"completed_on"`
	Source      string     `json:"source"`
}
