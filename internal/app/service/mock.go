package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jose-valero/scrim-matchmaker/internal/domain"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/storage"
)

// MockScrimStore is an in-memory ScrimStore for tests. Default behavior
// mirrors the Postgres repo (including FindMatches filtering and scoring, via
// domain.Score); individual methods can be overridden through the Func
// fields, and mutating calls are recorded.
type MockScrimStore struct {
	mu     sync.Mutex
	seq    int64
	scrims map[int64]domain.Scrim
	now    func() time.Time

	FindMatchesFunc func(ctx context.Context, ref domain.Scrim, limit int) ([]domain.ScoredScrim, error)

	ProposeCalls [][2]int64
	RevokeCalls  []int64
	CancelCalls  []int64
	RestoreCalls []int64
}

func NewMockScrimStore(now func() time.Time) *MockScrimStore {
	if now == nil {
		now = time.Now
	}
	return &MockScrimStore{scrims: map[int64]domain.Scrim{}, now: now}
}

func (m *MockScrimStore) Create(_ context.Context, sc domain.Scrim) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	sc.ID = m.seq
	m.scrims[sc.ID] = sc
	return sc.ID, nil
}

func (m *MockScrimStore) Cancel(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls = append(m.CancelCalls, id)
	if sc, ok := m.scrims[id]; ok {
		sc.Cancelled = true
		m.scrims[id] = sc
	}
	return nil
}

func (m *MockScrimStore) Restore(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls = append(m.RestoreCalls, id)
	if sc, ok := m.scrims[id]; ok {
		sc.Cancelled = false
		m.scrims[id] = sc
	}
	return nil
}

func (m *MockScrimStore) ProposeMatch(_ context.Context, from, to int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProposeCalls = append(m.ProposeCalls, [2]int64{from, to})
	if sc, ok := m.scrims[from]; ok {
		sc.MatchID = &to
		m.scrims[from] = sc
	}
	return nil
}

func (m *MockScrimStore) RevokeMatch(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RevokeCalls = append(m.RevokeCalls, id)
	if sc, ok := m.scrims[id]; ok {
		sc.MatchID = nil
		m.scrims[id] = sc
	}
	return nil
}

func (m *MockScrimStore) Get(_ context.Context, id int64) (domain.Scrim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.scrims[id]
	if !ok {
		return domain.Scrim{}, storage.ErrNotFound
	}
	return sc, nil
}

func (m *MockScrimStore) GetByIDs(_ context.Context, ids []int64) (map[int64]domain.Scrim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64]domain.Scrim{}
	for _, id := range ids {
		if sc, ok := m.scrims[id]; ok {
			out[id] = sc
		}
	}
	return out, nil
}

func (m *MockScrimStore) ListUpcomingByCreator(_ context.Context, creatorID string) ([]domain.Scrim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Scrim
	for _, sc := range m.scrims {
		if sc.CreatorID == creatorID && !sc.Cancelled && !sc.Time.Before(m.now()) {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (m *MockScrimStore) FindMatches(ctx context.Context, ref domain.Scrim, limit int) ([]domain.ScoredScrim, error) {
	if m.FindMatchesFunc != nil {
		return m.FindMatchesFunc(ctx, ref, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ScoredScrim
	for _, sc := range m.scrims {
		if sc.CreatorID == ref.CreatorID || sc.Cancelled || sc.Time.Before(m.now()) {
			continue
		}
		if sc.MatchID != nil && *sc.MatchID != ref.ID {
			continue
		}
		out = append(out, domain.ScoredScrim{Scrim: sc, Difference: domain.Score(ref, sc, domain.DefaultWeights)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Difference < out[j].Difference })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockPrefsStore is an in-memory PrefsStore.
type MockPrefsStore struct {
	mu    sync.Mutex
	zones map[string]string
}

func NewMockPrefsStore() *MockPrefsStore {
	return &MockPrefsStore{zones: map[string]string{}}
}

func (m *MockPrefsStore) SetTimezone(_ context.Context, userID, zone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[userID] = zone
	return nil
}

func (m *MockPrefsStore) GetTimezone(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	zone, ok := m.zones[userID]
	if !ok {
		return "", storage.ErrNotFound
	}
	return zone, nil
}
