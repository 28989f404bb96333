package domain

import (
	"math"
	"strconv"
	"strings"
)

// RankRange is an inclusive interval of rank points. A single rank collapses
// to From == To.
type RankRange struct {
	From uint32
	To   uint32
}

func parseRank(s string) (uint32, error) {
	raw := strings.TrimSpace(s)
	s = strings.TrimSuffix(raw, "k")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v*1000 > math.MaxInt32 {
		return 0, Inputf("invalid rank range. Must be formatted like `4.3k` or `4k-4.5k`. You entered: `%s`", raw)
	}
	return uint32(v * 1000), nil
}

// ParseRankRange accepts a single rank (`4.3k`) or a hyphenated range
// (`4k-4.5k`).
func ParseRankRange(s string) (RankRange, error) {
	s = strings.TrimSpace(s)
	if from, to, ok := strings.Cut(s, "-"); ok {
		f, err := parseRank(from)
		if err != nil {
			return RankRange{}, err
		}
		t, err := parseRank(to)
		if err != nil {
			return RankRange{}, err
		}
		if f > t {
			return RankRange{}, Inputf("rank range `%s` is backwards", s)
		}
		return RankRange{From: f, To: t}, nil
	}
	r, err := parseRank(s)
	if err != nil {
		return RankRange{}, err
	}
	return RankRange{From: r, To: r}, nil
}

// Midpoint of the interval, in rank points.
func (r RankRange) Midpoint() float64 {
	return (float64(r.From) + float64(r.To)) / 2
}

func fmtK(v uint32) string {
	return strconv.FormatFloat(float64(v)/1000, 'f', -1, 64) + "k"
}

func (r RankRange) String() string {
	if r.From == r.To {
		return fmtK(r.From)
	}
	return fmtK(r.From) + "-" + fmtK(r.To)
}
