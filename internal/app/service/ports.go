package service

import (
	"context"
	"time"

	"github.com/jose-valero/scrim-matchmaker/internal/domain"
)

// Implemented by internal/infra/storage.ScrimRepo
type ScrimStore interface {
	Create(ctx context.Context, sc domain.Scrim) (int64, error)
	Cancel(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	ProposeMatch(ctx context.Context, from, to int64) error
	RevokeMatch(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (domain.Scrim, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Scrim, error)
	ListUpcomingByCreator(ctx context.Context, creatorID string) ([]domain.Scrim, error)
	FindMatches(ctx context.Context, ref domain.Scrim, limit int) ([]domain.ScoredScrim, error)
}

// Implemented by internal/infra/storage.UserRepo
type PrefsStore interface {
	SetTimezone(ctx context.Context, userID, zone string) error
	GetTimezone(ctx context.Context, userID string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
