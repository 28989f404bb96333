package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jose-valero/scrim-matchmaker/internal/domain"
)

var baseTime = time.Date(2026, 9, 4, 20, 0, 0, 0, time.UTC)

func scrim(id int64, creator string, mid uint32, at time.Time) domain.Scrim {
	return domain.Scrim{
		ID:        id,
		CreatorID: creator,
		Region:    domain.RegionEU,
		Platform:  domain.PlatformPC,
		Range:     domain.RankRange{From: mid, To: mid},
		Time:      at,
	}
}

func TestScoreIdenticalIsZero(t *testing.T) {
	ref := scrim(1, "alice", 4000, baseTime)
	cand := scrim(2, "bob", 4000, baseTime)
	assert.Equal(t, 0.0, domain.Score(ref, cand, domain.DefaultWeights))
}

func TestScoreWeights(t *testing.T) {
	ref := scrim(1, "alice", 4000, baseTime)

	t.Run("rank distance", func(t *testing.T) {
		cand := scrim(2, "bob", 4300, baseTime)
		assert.Equal(t, 300.0, domain.Score(ref, cand, domain.DefaultWeights))
	})

	t.Run("one hour of time distance costs 500", func(t *testing.T) {
		cand := scrim(2, "bob", 4000, baseTime.Add(time.Hour))
		assert.InDelta(t, 500.0, domain.Score(ref, cand, domain.DefaultWeights), 1e-9)
	})

	t.Run("region mismatch", func(t *testing.T) {
		cand := scrim(2, "bob", 4000, baseTime)
		cand.Region = domain.RegionNA
		assert.Equal(t, 500.0, domain.Score(ref, cand, domain.DefaultWeights))
	})

	t.Run("platform mismatch", func(t *testing.T) {
		cand := scrim(2, "bob", 4000, baseTime)
		cand.Platform = domain.PlatformConsole
		assert.Equal(t, 200.0, domain.Score(ref, cand, domain.DefaultWeights))
	})
}

// A candidate that already proposed to the reference must sort before any
// fresh candidate no matter how bad its attributes are.
func TestReciprocalBonusDominates(t *testing.T) {
	ref := scrim(1, "alice", 4000, baseTime)

	worst := scrim(2, "bob", 9000, baseTime.Add(14*24*time.Hour))
	worst.Region = domain.RegionNA
	worst.Platform = domain.PlatformConsole
	worst.MatchID = &ref.ID

	perfect := scrim(3, "carol", 4000, baseTime)

	assert.Less(t,
		domain.Score(ref, worst, domain.DefaultWeights),
		domain.Score(ref, perfect, domain.DefaultWeights))
}

func TestReconcile(t *testing.T) {
	a := scrim(1, "alice", 4000, baseTime)
	b := scrim(2, "bob", 4000, baseTime)

	t.Run("no proposal", func(t *testing.T) {
		assert.Equal(t, domain.ProposalNone, domain.Reconcile(a, nil))
	})

	t.Run("pending", func(t *testing.T) {
		self := a
		self.MatchID = &b.ID
		assert.Equal(t, domain.ProposalPending, domain.Reconcile(self, &b))
	})

	t.Run("mutual", func(t *testing.T) {
		self, partner := a, b
		self.MatchID = &partner.ID
		partner.MatchID = &self.ID
		assert.Equal(t, domain.ProposalMutual, domain.Reconcile(self, &partner))
	})

	t.Run("partner moved on", func(t *testing.T) {
		self, partner := a, b
		self.MatchID = &partner.ID
		other := int64(99)
		partner.MatchID = &other
		assert.Equal(t, domain.ProposalStale, domain.Reconcile(self, &partner))
	})

	t.Run("partner cancelled", func(t *testing.T) {
		self, partner := a, b
		self.MatchID = &partner.ID
		partner.Cancelled = true
		assert.Equal(t, domain.ProposalStale, domain.Reconcile(self, &partner))
	})
}
