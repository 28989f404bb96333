package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/scrim-matchmaker/internal/app/service"
	"github.com/jose-valero/scrim-matchmaker/internal/domain"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newFixture(t *testing.T) (*service.ScrimService, *service.MockScrimStore, *service.MockPrefsStore) {
	t.Helper()
	store := service.NewMockScrimStore(func() time.Time { return testNow })
	prefs := service.NewMockPrefsStore()
	svc := service.NewScrimService(store, prefs, fixedClock{testNow})
	return svc, store, prefs
}

func seed(t *testing.T, store *service.MockScrimStore, creator string, mid uint32, at time.Time) domain.Scrim {
	t.Helper()
	sc := domain.Scrim{
		CreatorID: creator,
		Region:    domain.RegionEU,
		Platform:  domain.PlatformPC,
		Range:     domain.RankRange{From: mid, To: mid},
		Time:      at,
	}
	id, err := store.Create(context.Background(), sc)
	require.NoError(t, err)
	sc.ID = id
	return sc
}

func TestOpenSessionEmpty(t *testing.T) {
	svc, _, _ := newFixture(t)
	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, sess.Flows)
}

func TestOpenSessionLooking(t *testing.T) {
	svc, store, _ := newFixture(t)
	seed(t, store, "alice", 4000, testNow.Add(24*time.Hour))
	b := seed(t, store, "bob", 4000, testNow.Add(24*time.Hour))

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sess.Flows, 1)

	f := sess.Flows[0]
	assert.Equal(t, service.StateLooking, f.State)
	assert.False(t, f.PreviousRevoked)
	require.Len(t, f.Candidates, 1)
	assert.Equal(t, b.ID, f.Candidates[0].ID)
	assert.Equal(t, 0.0, f.Candidates[0].Difference)
}

func TestMatchFinderCapsAtFive(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	seed(t, store, "alice", 4000, at)

	// Seven eligible counterparts at increasing rank distance.
	creators := []string{"bob", "carol", "dave", "erin", "frank", "grace", "heidi"}
	for i, c := range creators {
		seed(t, store, c, uint32(4000+i*100), at)
	}

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sess.Flows, 1)

	f := sess.Flows[0]
	require.Len(t, f.Candidates, 5)
	for i, cand := range f.Candidates {
		assert.Equal(t, creators[i], cand.CreatorID)
		assert.Equal(t, float64(i*100), cand.Difference)
	}
}

func TestMatchFinderFilters(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	seed(t, store, "alice", 4000, at)

	seed(t, store, "alice", 4000, at) // same creator, excluded
	past := seed(t, store, "bob", 4000, testNow.Add(-time.Hour))
	cancelled := seed(t, store, "carol", 4000, at)
	require.NoError(t, store.Cancel(context.Background(), cancelled.ID))
	elsewhere := seed(t, store, "dave", 4000, at)
	third := seed(t, store, "erin", 4000, at)
	require.NoError(t, store.ProposeMatch(context.Background(), elsewhere.ID, third.ID))

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sess.Flows, 2)

	for _, c := range sess.Flows[0].Candidates {
		assert.NotEqual(t, "alice", c.CreatorID)
		assert.NotEqual(t, cancelled.ID, c.ID)
		assert.NotEqual(t, past.ID, c.ID)
		assert.NotEqual(t, elsewhere.ID, c.ID, "candidate matched to a third scrim must be excluded")
		assert.False(t, c.Time.Before(testNow))
	}
}

func TestReciprocalCandidateSortsFirst(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	a := seed(t, store, "alice", 4000, at)

	// Perfect fresh candidate vs terrible reciprocal one.
	seed(t, store, "bob", 4000, at)
	ugly := domain.Scrim{
		CreatorID: "carol",
		Region:    domain.RegionNA,
		Platform:  domain.PlatformConsole,
		Range:     domain.RankRange{From: 9000, To: 9000},
		Time:      at.Add(7 * 24 * time.Hour),
	}
	id, err := store.Create(context.Background(), ugly)
	require.NoError(t, err)
	require.NoError(t, store.ProposeMatch(context.Background(), id, a.ID))

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sess.Flows, 1)
	require.NotEmpty(t, sess.Flows[0].Candidates)
	assert.Equal(t, id, sess.Flows[0].Candidates[0].ID)
	assert.Negative(t, sess.Flows[0].Candidates[0].Difference)
}

func TestMutualProposalShowsMatched(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	a := seed(t, store, "alice", 4000, at)
	b := seed(t, store, "bob", 4000, at)
	require.NoError(t, store.ProposeMatch(context.Background(), a.ID, b.ID))
	require.NoError(t, store.ProposeMatch(context.Background(), b.ID, a.ID))

	for _, user := range []string{"alice", "bob"} {
		sess, err := svc.OpenSession(context.Background(), user)
		require.NoError(t, err)
		require.Len(t, sess.Flows, 1)
		assert.Equal(t, service.StateMatched, sess.Flows[0].State)
		require.NotNil(t, sess.Flows[0].Partner)
	}
	assert.Empty(t, store.RevokeCalls, "mutual match must not trigger a stale revoke")
}

func TestStaleProposalAutoRevokes(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	a := seed(t, store, "alice", 4000, at)
	b := seed(t, store, "bob", 4000, at)
	c := seed(t, store, "carol", 4000, at)

	require.NoError(t, store.ProposeMatch(context.Background(), a.ID, b.ID))
	require.NoError(t, store.ProposeMatch(context.Background(), b.ID, c.ID))

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sess.Flows, 1)

	f := sess.Flows[0]
	assert.Equal(t, service.StateLooking, f.State)
	assert.True(t, f.PreviousRevoked)
	assert.Contains(t, store.RevokeCalls, a.ID)

	got, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MatchID)
}

func TestAcceptProposesOneWay(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	a := seed(t, store, "alice", 4000, at)
	b := seed(t, store, "bob", 4000, at)

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	f := sess.Flows[0]
	require.NoError(t, svc.Accept(context.Background(), f, 0))

	assert.Equal(t, service.StateMatched, f.State)
	require.NotNil(t, f.Partner)
	assert.Equal(t, b.ID, f.Partner.ID)
	assert.Equal(t, [][2]int64{{a.ID, b.ID}}, store.ProposeCalls)

	gotA, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, gotA.MatchID)
	assert.Equal(t, b.ID, *gotA.MatchID)

	gotB, err := store.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Nil(t, gotB.MatchID, "accepting must not touch the counterpart row")
}

func TestCancelRestoreRoundTrip(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	a := seed(t, store, "alice", 4000, at)

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	f := sess.Flows[0]

	require.NoError(t, svc.CancelFlow(context.Background(), f))
	assert.Equal(t, service.StateCancelled, f.State)

	listed, err := store.ListUpcomingByCreator(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, listed, "cancelled scrims leave the active listing")

	require.NoError(t, svc.RestoreFlow(context.Background(), f))
	assert.Equal(t, service.StateLooking, f.State)

	listed, err = store.ListUpcomingByCreator(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, a.ID, listed[0].ID)
	assert.False(t, listed[0].Cancelled)
}

func TestRevokeReturnsToLooking(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	a := seed(t, store, "alice", 4000, at)
	seed(t, store, "bob", 4000, at)

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	f := sess.Flows[0]
	require.NoError(t, svc.Accept(context.Background(), f, 0))
	require.NoError(t, svc.Revoke(context.Background(), f))

	assert.Equal(t, service.StateLooking, f.State)
	assert.Nil(t, f.Partner)
	got, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MatchID)
	assert.NotEmpty(t, f.Candidates, "revoking rediscovers candidates")
}

func TestInvalidTransitionsAreNoOps(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	seed(t, store, "alice", 4000, at)
	seed(t, store, "bob", 4000, at)

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	f := sess.Flows[0]

	// Looking: revoke and restore don't apply.
	assert.ErrorIs(t, svc.Revoke(context.Background(), f), service.ErrInvalidAction)
	assert.ErrorIs(t, svc.RestoreFlow(context.Background(), f), service.ErrInvalidAction)
	// Out-of-range accept index.
	assert.ErrorIs(t, svc.Accept(context.Background(), f, 7), service.ErrInvalidAction)
	assert.ErrorIs(t, svc.Accept(context.Background(), f, -1), service.ErrInvalidAction)

	require.NoError(t, svc.Accept(context.Background(), f, 0))
	// Matched: refresh, cancel and accept don't apply.
	assert.ErrorIs(t, svc.Refresh(context.Background(), f), service.ErrInvalidAction)
	assert.ErrorIs(t, svc.CancelFlow(context.Background(), f), service.ErrInvalidAction)
	assert.ErrorIs(t, svc.Accept(context.Background(), f, 0), service.ErrInvalidAction)
}

func TestRefreshRerunsFinder(t *testing.T) {
	svc, store, _ := newFixture(t)
	at := testNow.Add(24 * time.Hour)
	seed(t, store, "alice", 4000, at)

	sess, err := svc.OpenSession(context.Background(), "alice")
	require.NoError(t, err)
	f := sess.Flows[0]
	assert.Empty(t, f.Candidates)

	seed(t, store, "bob", 4000, at)
	require.NoError(t, svc.Refresh(context.Background(), f))
	assert.Len(t, f.Candidates, 1)
}
