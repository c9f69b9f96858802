package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// LeaderboardResult is a possibly truncated ranking.
type LeaderboardResult struct {
	Mode    domain.LeaderboardMode
	Entries []domain.LeaderboardEntry
	Total   int // ranked users before truncation
	Faults  []domain.ScoringFault
}

// Standing is one user's place in a ranking.
type Standing struct {
	Entry domain.LeaderboardEntry
	Total int
}

// LeaderboardService serves rankings computed by the canonical aggregator.
type LeaderboardService interface {
	Compute(ctx context.Context, mode string, limit int) (*LeaderboardResult, error)
	Standing(ctx context.Context, userID, mode string) (*Standing, error)
	Invalidate(ctx context.Context)
}
