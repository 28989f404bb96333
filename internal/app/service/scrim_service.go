package service

import (
	"context"
	"errors"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/jose-valero/scrim-matchmaker/internal/domain"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/storage"
)

// matchLimit caps how many candidates a sub-flow shows at once.
const matchLimit = 5

type ScrimService struct {
	scrims ScrimStore
	prefs  PrefsStore
	clock  Clock
	when   *when.Parser
}

func NewScrimService(scrims ScrimStore, prefs PrefsStore, clock Clock) *ScrimService {
	if clock == nil {
		clock = realClock{}
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &ScrimService{scrims: scrims, prefs: prefs, clock: clock, when: w}
}

// Timezone resolves the caller's stored zone. Not having one set is a user
// error with pointers on how to fix it.
func (s *ScrimService) Timezone(ctx context.Context, userID string) (*time.Location, error) {
	zone, err := s.prefs.GetTimezone(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, domain.Inputf("You haven't set your timezone yet. Use `/timezone zone:<timezone>` to set it")
	}
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, domain.Inputf("Your stored timezone `%s` is invalid. Use `/timezone zone:<timezone>` to fix it", zone)
	}
	return loc, nil
}

func (s *ScrimService) SetTimezone(ctx context.Context, userID, zone string) (*time.Location, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, domain.Inputf("Invalid timezone `%s`", zone)
	}
	if err := s.prefs.SetTimezone(ctx, userID, loc.String()); err != nil {
		return nil, err
	}
	return loc, nil
}

type CreateScrimInput struct {
	Region   string
	Platform string
	Range    string
	When     string
	TeamName *string
}

// PrepareScrim validates every field and builds the request without
// persisting it, so the adapter can ask for confirmation first. The scheduled
// time is parsed relative to "now" in the caller's stored timezone.
func (s *ScrimService) PrepareScrim(ctx context.Context, userID string, in CreateScrimInput) (domain.Scrim, error) {
	loc, err := s.Timezone(ctx, userID)
	if err != nil {
		return domain.Scrim{}, err
	}
	region, err := domain.ParseRegion(in.Region)
	if err != nil {
		return domain.Scrim{}, err
	}
	platform, err := domain.ParsePlatform(in.Platform)
	if err != nil {
		return domain.Scrim{}, err
	}
	rng, err := domain.ParseRankRange(in.Range)
	if err != nil {
		return domain.Scrim{}, err
	}
	at, err := s.parseWhen(in.When, loc)
	if err != nil {
		return domain.Scrim{}, err
	}

	return domain.Scrim{
		CreatorID: userID,
		TeamName:  in.TeamName,
		Region:    region,
		Platform:  platform,
		Range:     rng,
		Time:      at,
	}, nil
}

// SaveScrim persists a prepared request once the user confirmed it.
func (s *ScrimService) SaveScrim(ctx context.Context, sc domain.Scrim) (domain.Scrim, error) {
	id, err := s.scrims.Create(ctx, sc)
	if err != nil {
		return domain.Scrim{}, err
	}
	sc.ID = id
	return sc, nil
}

// CreateScrim is PrepareScrim plus SaveScrim, for callers that need no
// confirmation step.
func (s *ScrimService) CreateScrim(ctx context.Context, userID string, in CreateScrimInput) (domain.Scrim, error) {
	sc, err := s.PrepareScrim(ctx, userID, in)
	if err != nil {
		return domain.Scrim{}, err
	}
	return s.SaveScrim(ctx, sc)
}

func (s *ScrimService) parseWhen(text string, loc *time.Location) (time.Time, error) {
	now := s.clock.Now().In(loc)
	r, err := s.when.Parse(text, now)
	if err != nil || r == nil {
		return time.Time{}, domain.Inputf("No time specified. Try `8:30pm`, `tomorrow 8pm` or `july 4 20:00`. You entered: `%s`", text)
	}
	return r.Time.UTC(), nil
}

// ListUpcoming returns the caller's future, non-cancelled scrims.
func (s *ScrimService) ListUpcoming(ctx context.Context, userID string) ([]domain.Scrim, error) {
	return s.scrims.ListUpcomingByCreator(ctx, userID)
}

func (s *ScrimService) CancelByID(ctx context.Context, id int64) error {
	return s.scrims.Cancel(ctx, id)
}
