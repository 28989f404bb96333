package domain

import "math"

// Weights for the match difference score. Lower scores are better; the
// reciprocal bonus is large enough to dominate any realistic rank/time/region
// spread, so a candidate that already proposed to us always sorts first.
type Weights struct {
	Rank          float64 // per rank point of midpoint distance
	TimePerSecond float64 // per second of schedule distance
	Region        float64 // flat penalty on region mismatch
	Platform      float64 // flat penalty on platform mismatch
	Reciprocal    float64 // subtracted when candidate.MatchID == ref.ID
}

// DefaultWeights are the same constants the SQL query binds, 500/3600 being
// 500 points per hour of schedule distance.
var DefaultWeights = Weights{
	Rank:          1,
	TimePerSecond: 500.0 / 3600.0,
	Region:        500,
	Platform:      200,
	Reciprocal:    10_000_000,
}

// Score computes the weighted difference between a reference scrim and a
// candidate. It mirrors the ORDER BY expression in the Postgres repo.
func Score(ref, cand Scrim, w Weights) float64 {
	d := math.Abs(cand.Range.Midpoint()-ref.Range.Midpoint()) * w.Rank
	d += math.Abs(cand.Time.Sub(ref.Time).Seconds()) * w.TimePerSecond
	if cand.Region != ref.Region {
		d += w.Region
	}
	if cand.Platform != ref.Platform {
		d += w.Platform
	}
	if cand.MatchID != nil && *cand.MatchID == ref.ID {
		d -= w.Reciprocal
	}
	return d
}
