package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// maxSnapshotRevisions bounds the per-task revision count read from a file.
const maxSnapshotRevisions = 1000

// snapshotFile is an exported board: users plus tasks. JSON input parses too
// since YAML is a superset of it.
type snapshotFile struct {
	Users []snapshotUser `yaml:"users"`
	Tasks []snapshotTask `yaml:"tasks"`
}

type snapshotUser struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type snapshotTask struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category"`
	Status      string   `yaml:"status"`
	DueDate     string   `yaml:"due_date"`
	CompletedOn string   `yaml:"completed_on"`
	Revisions   int      `yaml:"revisions"`
	Assignees   []string `yaml:"assignees"`
}

func readSnapshot(path string) ([]domain.Task, []domain.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot: %w", err)
	}
	return parseSnapshot(data)
}

// parseSnapshot converts the file into domain values. Roles go through the
// legacy mapping; categories and dates are kept as found so scoring reports
// bad rows as faults instead of rejecting the whole file.
func parseSnapshot(data []byte) ([]domain.Task, []domain.User, error) {
	var f snapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse snapshot: %w", err)
	}

	users := make([]domain.User, 0, len(f.Users))
	for _, u := range f.Users {
		users = append(users, domain.User{ID: u.ID, Name: u.Name, Role: domain.NormalizeRole(u.Role)})
	}

	tasks := make([]domain.Task, 0, len(f.Tasks))
	for _, t := range f.Tasks {
		status, err := domain.ParseStatus(t.Status)
		if err != nil {
			return nil, nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		due, err := parseDay(t.DueDate)
		if err != nil {
			return nil, nil, fmt.Errorf("task %s due_date: %w", t.ID, err)
		}
		if t.Revisions < 0 || t.Revisions > maxSnapshotRevisions {
			return nil, nil, fmt.Errorf("task %s revisions: %d out of range 0..%d", t.ID, t.Revisions, maxSnapshotRevisions)
		}
		task := domain.Task{
			ID:        t.ID,
			Title:     t.Title,
			Category:  domain.Category(t.Category),
			Status:    status,
			DueDate:   due,
			Assignees: t.Assignees,
			Revisions: make([]domain.Revision, t.Revisions),
		}
		if t.CompletedOn != "" {
			completed, err := parseDay(t.CompletedOn)
			if err != nil {
				return nil, nil, fmt.Errorf("task %s completed_on: %w", t.ID, err)
			}
			task.CompletedOn = &completed
		}
		tasks = append(tasks, task)
	}
	return tasks, users, nil
}

// parseDay accepts a calendar date or an RFC 3339 timestamp, keeping the day
// as written in the timestamp's offset. Empty yields the zero time.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return domain.CalendarDay(t), nil
}
