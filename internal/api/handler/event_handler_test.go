package handler

import (
	"net/http"
	"testing"

	"github.com/kreatask/kreatask-api/internal/core/ports"
)

type recordingDispatcher struct {
	events []ports.StatusEventInput
	batch  []ports.StatusEventInput
}

func (d *recordingDispatcher) Enqueue(e ports.StatusEventInput) {
	d.events = append(d.events, e)
}

func (d *recordingDispatcher) EnqueueBatch(es []ports.StatusEventInput) {
	d.batch = append(d.batch, es...)
}

func TestEventHandler_Receive_Accepted(t *testing.T) {
	d := &recordingDispatcher{}
	c, rec := newContext(http.MethodPost, "/v1/tasks/events",
		`{"task_id":"t1","status":"In Progress","timestamp":"2025-03-10T08:00:00Z"}`, designer)

	if err := NewEventHandler(d).Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusAccepted)

	if len(d.events) != 1 {
		t.Fatalf("expected 1 queued event, got %d", len(d.events))
	}
	got := d.events[0]
	if got.TaskID != "t1" || got.Source != "api" || got.Actor.ID != designer.ID {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestEventHandler_Receive_Rejects(t *testing.T) {
	cases := map[string]struct {
		body string
		code int
	}{
		"unknown status":    {`{"task_id":"t1","status":"Archived","timestamp":"2025-03-10T08:00:00Z"}`, http.StatusUnprocessableEntity},
		"missing task":      {`{"status":"Completed","timestamp":"2025-03-10T08:00:00Z"}`, http.StatusUnprocessableEntity},
		"missing timestamp": {`{"task_id":"t1","status":"Completed"}`, http.StatusUnprocessableEntity},
		"malformed":         {`{"task_id":`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := &recordingDispatcher{}
			c, _ := newContext(http.MethodPost, "/v1/tasks/events", tc.body, designer)
			assertHTTPError(t, NewEventHandler(d).Receive(c), tc.code)
			if len(d.events) != 0 {
				t.Error("rejected event must not be queued")
			}
		})
	}
}

func TestEventHandler_ReceiveBatch_KeepsOrder(t *testing.T) {
	d := &recordingDispatcher{}
	body := `[
		{"task_id":"t1","status":"In Progress","timestamp":"2025-03-10T08:00:00Z","source":"kanban"},
		{"task_id":"t1","status":"In Review","timestamp":"2025-03-10T09:00:00Z"},
		{"task_id":"t2","status":"Blocked","timestamp":"2025-03-10T09:30:00Z"}
	]`
	c, rec := newContext(http.MethodPost, "/v1/tasks/events/batch", body, designer)

	if err := NewEventHandler(d).ReceiveBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusAccepted)

	if len(d.batch) != 3 {
		t.Fatalf("expected 3 queued events, got %d", len(d.batch))
	}
	if d.batch[0].Status != "In Progress" || d.batch[1].Status != "In Review" {
		t.Errorf("order not preserved: %+v", d.batch)
	}
	if d.batch[0].Source != "kanban" || d.batch[1].Source != "api" {
		t.Errorf("sources = %q, %q", d.batch[0].Source, d.batch[1].Source)
	}
}

func TestEventHandler_ReceiveBatch_AllOrNothing(t *testing.T) {
	d := &recordingDispatcher{}
	body := `[
		{"task_id":"t1","status":"In Progress","timestamp":"2025-03-10T08:00:00Z"},
		{"task_id":"t1","status":"Shipped","timestamp":"2025-03-10T09:00:00Z"}
	]`
	c, _ := newContext(http.MethodPost, "/v1/tasks/events/batch", body, designer)

	assertHTTPError(t, NewEventHandler(d).ReceiveBatch(c), http.StatusUnprocessableEntity)
	if len(d.batch) != 0 {
		t.Error("no event of a rejected batch may be queued")
	}
}

func TestEventHandler_ReceiveBatch_Empty(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/tasks/events/batch", `[]`, designer)
	assertHTTPError(t, NewEventHandler(&recordingDispatcher{}).ReceiveBatch(c), http.StatusBadRequest)
}

func TestEventHandler_RequiresActor(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/tasks/events", `{}`, nil)
	assertHTTPError(t, NewEventHandler(&recordingDispatcher{}).Receive(c), http.StatusUnauthorized)
}
