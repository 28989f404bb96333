package domain

import "time"

// Region is an open enumeration: the two known values are below, but anything
// stored in the DB round-trips untouched.
type Region string

const (
	RegionEU Region = "EU"
	RegionNA Region = "NA"
)

type Platform string

const (
	PlatformPC      Platform = "PC"
	PlatformConsole Platform = "Console"
)

func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionEU, RegionNA:
		return Region(s), nil
	}
	return "", Inputf("unknown region `%s`", s)
}

func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformPC, PlatformConsole:
		return Platform(s), nil
	}
	return "", Inputf("unknown platform `%s`", s)
}

// Scrim is one "looking for scrim" request. MatchID is a directed edge: it
// means "I proposed to that scrim", not a confirmed two-way match.
type Scrim struct {
	ID        int64
	CreatorID string
	TeamName  *string
	Region    Region
	Platform  Platform
	Range     RankRange
	Time      time.Time
	MatchID   *int64
	Cancelled bool
}

// ScoredScrim is a match candidate together with its difference score
// (lower is better).
type ScoredScrim struct {
	Scrim
	Difference float64
}

// ProposalState is the outcome of reconciling a scrim against the scrim its
// MatchID points at.
type ProposalState int

const (
	// ProposalNone: no proposal outstanding.
	ProposalNone ProposalState = iota
	// ProposalMutual: both sides point at each other.
	ProposalMutual
	// ProposalPending: we proposed, partner has not answered (their MatchID
	// is unset).
	ProposalPending
	// ProposalStale: partner has since proposed to someone else, or
	// cancelled; our edge must be revoked.
	ProposalStale
)

// Reconcile classifies self's outstanding proposal given the scrim it points
// at. partner may be nil only when self.MatchID is nil.
func Reconcile(self Scrim, partner *Scrim) ProposalState {
	if self.MatchID == nil || partner == nil {
		return ProposalNone
	}
	if partner.Cancelled {
		return ProposalStale
	}
	if partner.MatchID == nil {
		return ProposalPending
	}
	if *partner.MatchID == self.ID {
		return ProposalMutual
	}
	return ProposalStale
}
