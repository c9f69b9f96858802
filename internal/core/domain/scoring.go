package domain

import (
	"fmt"
	"time"
)

const (
	onTimeBonus     = 5
	latePenalty     = 5
	revisionPenalty = 5
	// Revisions beyond this count incur revisionPenalty.
	revisionAllowance = 2
)

var basePoints = map[Category]int{
	CategoryLow:      10,
	CategoryMedium:   20,
	CategoryHigh:     40,
	CategoryCritical: 50,
}

// BasePoints returns the base points for a category.
func BasePoints(c Category) (int, error) {
	p, ok := basePoints[c]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	return p, nil
}

// ScoreBreakdown is the itemised point value of one completed task.
// Total = Base + Bonus - LatePenalty - RevisionPenalty and is never clamped.
type ScoreBreakdown struct {
	Base            int  `json:"base_points" bson:"base_points"`
	Bonus           int  `json:"bonus_points" bson:"bonus_points"`
	LatePenalty     int  `json:"late_penalty" bson:"late_penalty"`
	RevisionPenalty int  `json:"revision_penalty" bson:"revision_penalty"`
	Total           int  `json:"total_points" bson:"total_points"`
	OnTime          bool `json:"on_time" bson:"on_time"`
}

// ScoreInput carries exactly the values the scoring rules read.
type ScoreInput struct {
	Category      Category
	DueDate       time.Time
	CompletedOn   *time.Time
	RevisionCount int
}

// Score computes the breakdown. It is pure: the same input always yields the
// same result.
func (in ScoreInput) Score() (ScoreBreakdown, error) {
	base, err := BasePoints(in.Category)
	if err != nil {
		return ScoreBreakdown{}, err
	}
	if in.CompletedOn == nil || in.CompletedOn.IsZero() {
		return ScoreBreakdown{}, ErrMissingCompletionDate
	}
	if in.DueDate.IsZero() {
		return ScoreBreakdown{}, ErrMissingDueDate
	}

	b := ScoreBreakdown{Base: base, OnTime: OnTime(*in.CompletedOn, in.DueDate)}
	if b.OnTime {
		b.Bonus = onTimeBonus
	} else {
		b.LatePenalty = latePenalty
	}
	if in.RevisionCount > revisionAllowance {
		b.RevisionPenalty = revisionPenalty
	}
	b.Total = b.Base + b.Bonus - b.LatePenalty - b.RevisionPenalty
	return b, nil
}

// OnTime compares by calendar date in UTC: completing on the due date counts
// as on time regardless of the time of day. Inputs carrying an offset should
// pass through CalendarDay first.
func OnTime(completedOn, dueDate time.Time) bool {
	return !calendarDate(completedOn).After(calendarDate(dueDate))
}

// CalendarDay keeps the date as written in t's own offset and returns it as
// midnight UTC, the form dates are stored and compared in.
// 2024-08-15T00:00:00+07:00 stays 2024-08-15.
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func calendarDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Input returns the frozen scoring inputs of a snapshot.
func (s ScoreSnapshot) Input() ScoreInput {
	completed := s.CompletedOn
	return ScoreInput{
		Category:      s.Category,
		DueDate:       s.DueDate,
		CompletedOn:   &completed,
		RevisionCount: s.RevisionCount,
	}
}

// ScoringInput returns the inputs a score is derived from: the frozen
// snapshot when the task has one, otherwise the live task fields.
func (t *Task) ScoringInput() ScoreInput {
	if t.Score != nil {
		return t.Score.Input()
	}
	return ScoreInput{
		Category:      t.Category,
		DueDate:       t.DueDate,
		CompletedOn:   t.CompletedOn,
		RevisionCount: len(t.Revisions),
	}
}

// ScoreTask is the canonical scoring entry point. It always recomputes from
// the scoring inputs and never trusts a stored breakdown. Callers only pass
// Completed tasks; other statuses are excluded upstream.
func ScoreTask(t *Task) (ScoreBreakdown, error) {
	return t.ScoringInput().Score()
}
