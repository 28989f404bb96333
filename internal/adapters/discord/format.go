package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/jose-valero/scrim-matchmaker/internal/app/service"
	"github.com/jose-valero/scrim-matchmaker/internal/domain"
)

// fmtScrimMeta renders "EU/PC 4k-4.5k on <t:...:F>". The time is omitted when
// it equals other's (no point repeating it on candidate lines), and gets a
// relative suffix when it is less than a day away.
func fmtScrimMeta(sc domain.Scrim, other *domain.Scrim, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s %s", sc.Region, sc.Platform, sc.Range)

	if other != nil && sc.Time.Equal(other.Time) {
		return b.String()
	}
	fmt.Fprintf(&b, " on <t:%d:F>", sc.Time.Unix())
	if sc.Time.Sub(now) < 24*time.Hour {
		fmt.Fprintf(&b, " (<t:%d:R>)", sc.Time.Unix())
	}
	return b.String()
}

// fmtScrimLine renders a counterpart scrim with its creator mention and team.
func fmtScrimLine(sc domain.Scrim, other *domain.Scrim, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<@%s> ", sc.CreatorID)
	if sc.TeamName != nil {
		fmt.Fprintf(&b, "(**%s**) ", *sc.TeamName)
	}
	b.WriteString(fmtScrimMeta(sc, other, now))
	return b.String()
}

// renderFlow builds the message body of one sub-flow.
func renderFlow(f *service.SubFlow, now time.Time) string {
	var b strings.Builder

	b.WriteString("## ")
	if f.Scrim.TeamName != nil {
		fmt.Fprintf(&b, "%s: ", *f.Scrim.TeamName)
	}
	b.WriteString(fmtScrimMeta(f.Scrim, nil, now))
	b.WriteByte('\n')

	switch f.State {
	case service.StateMatched:
		b.WriteString("Matched with ")
		if f.Partner != nil {
			b.WriteString(fmtScrimLine(*f.Partner, &f.Scrim, now))
		}
		b.WriteByte('\n')

	case service.StateCancelled:
		b.WriteString("Cancelled. Restore to get back into the matchmaker.\n")

	case service.StateLooking:
		if f.PreviousRevoked {
			b.WriteString("⚠️ Your previous match fell through (they matched with someone else), so it was revoked.\n")
		}
		if len(f.Candidates) == 0 {
			b.WriteString("No matches found. Try again later\n")
		} else {
			b.WriteString("### Potential matches:\n")
			for _, c := range f.Candidates {
				b.WriteString("- ")
				b.WriteString(fmtScrimLine(c.Scrim, &f.Scrim, now))
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// fmtScrimLocal renders a scrim in the owner's timezone, for select-menu
// labels where Discord markup doesn't work.
func fmtScrimLocal(sc domain.Scrim, loc *time.Location) string {
	var b strings.Builder
	if sc.TeamName != nil {
		fmt.Fprintf(&b, "%s: ", *sc.TeamName)
	}
	fmt.Fprintf(&b, "%s/%s %s on %s", sc.Region, sc.Platform, sc.Range,
		sc.Time.In(loc).Format("Monday, January 2, 15:04 MST"))
	return b.String()
}

// truncate trims to at most n bytes without splitting a rune; select-menu
// labels must stay valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
