package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

func TestNow_MillisecondPrecision(t *testing.T) {
	ts := now()
	if ts.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", ts.Location())
	}
	if ts.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("expected millisecond precision, got %v", ts)
	}
	if defaultTimeout <= 0 || defaultTimeout > connectTimeout {
		t.Errorf("repository timeout %v should be positive and within the connect timeout", defaultTimeout)
	}
}

func TestBuildFilter(t *testing.T) {
	if f := buildFilter(ports.TaskFilter{}); len(f) != 0 {
		t.Errorf("empty filter should match everything, got %v", f)
	}

	f := buildFilter(ports.TaskFilter{
		Status:   domain.StatusCompleted,
		Category: domain.CategoryHigh,
		Assignee: "u1",
		Search:   "poster (v2)",
	})
	if f["status"] != "Completed" || f["category"] != "High" || f["assignees"] != "u1" {
		t.Errorf("unexpected filter: %v", f)
	}
	re, ok := f["title"].(primitive.Regex)
	if !ok || re.Pattern != `poster \(v2\)` || re.Options != "i" {
		t.Errorf("search must be a quoted case-insensitive regex, got %#v", f["title"])
	}
}

func TestNormalizeSlices(t *testing.T) {
	var task domain.Task
	normalizeSlices(&task)
	if task.Assignees == nil || task.Revisions == nil || task.Comments == nil {
		t.Errorf("expected empty non-nil slices, got %+v", task)
	}
}
