package service

import (
	"context"
	"errors"

	"github.com/jose-valero/scrim-matchmaker/internal/domain"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/storage"
)

// ErrInvalidAction: the requested transition does not apply to the flow's
// current state (e.g. revoke while Looking). Callers treat it as a no-op.
var ErrInvalidAction = errors.New("action not valid in current state")

type FlowState int

const (
	StateLooking FlowState = iota
	StateMatched
	StateCancelled
)

// SubFlow is the per-scrim slice of an interactive session. Exactly one of
// Candidates (Looking) or Partner (Matched) is populated.
type SubFlow struct {
	Scrim           domain.Scrim
	State           FlowState
	PreviousRevoked bool
	Candidates      []domain.ScoredScrim
	Partner         *domain.Scrim
}

// Session is one `/scrims` invocation: an independent sub-flow per upcoming
// scrim of the invoking user.
type Session struct {
	UserID string
	Flows  []*SubFlow
}

// OpenSession lists the user's upcoming scrims and computes each sub-flow's
// initial state. A proposal whose partner has since accepted someone else (or
// cancelled) is stale: it is auto-revoked here and the flow opens Looking
// with PreviousRevoked set so the user is told.
func (s *ScrimService) OpenSession(ctx context.Context, userID string) (*Session, error) {
	scrims, err := s.scrims.ListUpcomingByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	var partnerIDs []int64
	for _, sc := range scrims {
		if sc.MatchID != nil {
			partnerIDs = append(partnerIDs, *sc.MatchID)
		}
	}
	partners, err := s.scrims.GetByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	sess := &Session{UserID: userID}
	for _, sc := range scrims {
		f, err := s.initFlow(ctx, sc, partners)
		if err != nil {
			return nil, err
		}
		sess.Flows = append(sess.Flows, f)
	}
	return sess, nil
}

func (s *ScrimService) initFlow(ctx context.Context, sc domain.Scrim, partners map[int64]domain.Scrim) (*SubFlow, error) {
	f := &SubFlow{Scrim: sc}

	var partner *domain.Scrim
	dangling := false
	if sc.MatchID != nil {
		if p, ok := partners[*sc.MatchID]; ok {
			partner = &p
		} else {
			dangling = true
		}
	}

	state := domain.Reconcile(sc, partner)
	if dangling {
		state = domain.ProposalStale
	}
	switch state {
	case domain.ProposalMutual, domain.ProposalPending:
		f.State = StateMatched
		f.Partner = partner
		return f, nil
	case domain.ProposalStale:
		if err := s.scrims.RevokeMatch(ctx, sc.ID); err != nil {
			return nil, err
		}
		f.Scrim.MatchID = nil
		f.PreviousRevoked = true
	}

	f.State = StateLooking
	return f, s.loadCandidates(ctx, f)
}

func (s *ScrimService) loadCandidates(ctx context.Context, f *SubFlow) error {
	cands, err := s.scrims.FindMatches(ctx, f.Scrim, matchLimit)
	if err != nil {
		return err
	}
	f.Candidates = cands
	return nil
}

// Refresh re-runs the match finder for a Looking flow.
func (s *ScrimService) Refresh(ctx context.Context, f *SubFlow) error {
	if f.State != StateLooking {
		return ErrInvalidAction
	}
	f.PreviousRevoked = false
	return s.loadCandidates(ctx, f)
}

// Accept proposes a match with candidate n. Only our side of the edge is
// written; the partner confirms by accepting back from their own session.
func (s *ScrimService) Accept(ctx context.Context, f *SubFlow, n int) error {
	if f.State != StateLooking || n < 0 || n >= len(f.Candidates) {
		return ErrInvalidAction
	}
	cand := f.Candidates[n].Scrim
	if err := s.scrims.ProposeMatch(ctx, f.Scrim.ID, cand.ID); err != nil {
		return err
	}
	f.Scrim.MatchID = &cand.ID
	f.State = StateMatched
	f.Partner = &cand
	f.Candidates = nil
	f.PreviousRevoked = false
	return nil
}

// CancelFlow soft-deletes the scrim, removing it from the matchmaker.
func (s *ScrimService) CancelFlow(ctx context.Context, f *SubFlow) error {
	if f.State != StateLooking {
		return ErrInvalidAction
	}
	if err := s.scrims.Cancel(ctx, f.Scrim.ID); err != nil {
		return err
	}
	f.Scrim.Cancelled = true
	f.State = StateCancelled
	f.Candidates = nil
	f.PreviousRevoked = false
	return nil
}

// Revoke withdraws our proposal and goes back to Looking.
func (s *ScrimService) Revoke(ctx context.Context, f *SubFlow) error {
	if f.State != StateMatched {
		return ErrInvalidAction
	}
	if err := s.scrims.RevokeMatch(ctx, f.Scrim.ID); err != nil {
		return err
	}
	f.Scrim.MatchID = nil
	f.State = StateLooking
	f.Partner = nil
	return s.loadCandidates(ctx, f)
}

// RestoreFlow undoes a cancel and goes back to Looking.
func (s *ScrimService) RestoreFlow(ctx context.Context, f *SubFlow) error {
	if f.State != StateCancelled {
		return ErrInvalidAction
	}
	if err := s.scrims.Restore(ctx, f.Scrim.ID); err != nil {
		return err
	}
	f.Scrim.Cancelled = false
	f.State = StateLooking
	return s.loadCandidates(ctx, f)
}

// PartnerOf fetches the counterpart scrim of a proposal.
func (s *ScrimService) PartnerOf(ctx context.Context, sc domain.Scrim) (*domain.Scrim, error) {
	if sc.MatchID == nil {
		return nil, nil
	}
	p, err := s.scrims.Get(ctx, *sc.MatchID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
