package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// LeaderboardMode selects the eligible population.
type LeaderboardMode string

const (
	ModeAllUsers      LeaderboardMode = "all"
	ModeEmployeesOnly LeaderboardMode = "employees"
)

// ParseLeaderboardMode accepts "all"/"all_users" and "employees"/"employees_only".
// An empty value selects ModeAllUsers.
func ParseLeaderboardMode(s string) (LeaderboardMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all_users":
		return ModeAllUsers, nil
	case "employees", "employees_only":
		return ModeEmployeesOnly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLeaderboardMode, s)
}

func (m LeaderboardMode) eligible(u User) bool {
	if m == ModeEmployeesOnly {
		return u.Role.IsEmployee()
	}
	return true
}

// LeaderboardEntry is the ranked summary of one user. It is derived on every
// aggregation and never persisted on its own.
type LeaderboardEntry struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	Role           Role   `json:"role"`
	Rank           int    `json:"rank"`
	Score          int    `json:"score"`
	TasksCompleted int    `json:"tasks_completed"`
}

// ScoringFault records a completed task that could not be scored and was
// left out of the ranking.
type ScoringFault struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Leaderboard is the result of one aggregation.
type Leaderboard struct {
	Mode    LeaderboardMode    `json:"mode"`
	Entries []LeaderboardEntry `json:"entries"`
	Faults  []ScoringFault     `json:"faults,omitempty"`
}

// Top returns at most n entries; n <= 0 returns all of them.
func (l *Leaderboard) Top(n int) []LeaderboardEntry {
	if n <= 0 || n >= len(l.Entries) {
		return l.Entries
	}
	return l.Entries[:n]
}

// Find returns the entry for userID.
func (l *Leaderboard) Find(userID string) (LeaderboardEntry, bool) {
	for _, e := range l.Entries {
		if e.UserID == userID {
			return e, true
		}
	}
	return LeaderboardEntry{}, false
}

// Aggregate ranks users by the sum of their completed task scores.
//
// Only Completed tasks count. Every eligible assignee of a task receives the
// full task score. Assignees that do not resolve to an eligible user are
// skipped silently. A task that fails to score is recorded as a fault and
// skipped; it never blanks the rest of the leaderboard. Ties keep the input
// order of users, and ranks are 1-based sorted positions.
func Aggregate(tasks []Task, users []User, mode LeaderboardMode) (*Leaderboard, error) {
	if mode != ModeAllUsers && mode != ModeEmployeesOnly {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLeaderboardMode, mode)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	index := make(map[string]int, len(users))
	for _, u := range users {
		if !mode.eligible(u) {
			continue
		}
		if _, dup := index[u.ID]; dup {
			continue
		}
		index[u.ID] = len(entries)
		entries = append(entries, LeaderboardEntry{
			UserID:    u.ID,
			Name:      u.Name,
			AvatarURL: u.AvatarURL,
			Role:      u.Role,
		})
	}

	lb := &Leaderboard{Mode: mode}
	for i := range tasks {
		t := &tasks[i]
		if t.Status != StatusCompleted {
			continue
		}
		b, err := ScoreTask(t)
		if err != nil {
			lb.Faults = append(lb.Faults, ScoringFault{TaskID: t.ID, Reason: faultReason(err), Err: err})
			continue
		}
		credited := make(map[string]struct{}, len(t.Assignees))
		for _, uid := range t.Assignees {
			pos, ok := index[uid]
			if !ok {
				continue
			}
			if _, seen := credited[uid]; seen {
				continue
			}
			credited[uid] = struct{}{}
			entries[pos].Score += b.Total
			entries[pos].TasksCompleted++
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	lb.Entries = entries
	return lb, nil
}

func faultReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, ErrMissingCompletionDate):
		return "missing_completion_date"
	case errors.Is(err, ErrMissingDueDate):
		return "missing_due_date"
	}
	return "unknown"
}
