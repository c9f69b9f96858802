package domain

import "errors"

// Scoring.
var (
	ErrInvalidCategory       = errors.New("invalid task category")
	ErrMissingCompletionDate = errors.New("completed task has no completion date")
	ErrMissingDueDate        = errors.New("task has no due date")
)

// Tasks.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotCompleted      = errors.New("task is not completed")
	ErrConflict          = errors.New("concurrent modification")
)

// Users, auth and permissions.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSelfTarget         = errors.New("cannot target own account")
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidAction      = errors.New("invalid permission action")
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidLeaderboardMode = errors.New("invalid leaderboard mode")
	ErrLanguageModel          = errors.New("language model unavailable")
)
