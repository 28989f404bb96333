package discord

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

func (r *Router) handleTimezone(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID string) {
	data := ic.ApplicationCommandData()
	zone, ok := optString(data, "zone")

	if ok && zone != "" {
		loc, err := r.svc.SetTimezone(ctx, userID, zone)
		if err != nil {
			replyErr(s, ic, err)
			return
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("Timezone set to `%s`. Current time: `%s`",
			loc, time.Now().In(loc).Format("02/01/2006 15:04")))
		return
	}

	loc, err := r.svc.Timezone(ctx, userID)
	if err != nil {
		replyErr(s, ic, err)
		return
	}
	ReplyEphemeral(s, ic, fmt.Sprintf("Your timezone is `%s`. Current time: `%s`",
		loc, time.Now().In(loc).Format("02/01/2006 15:04")))
}

const maxChoices = 10

func (r *Router) handleAutocomplete(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ApplicationCommandData()
	if data.Name != "timezone" {
		return
	}
	var partial string
	for _, o := range data.Options {
		if o.Focused {
			partial = o.StringValue()
		}
	}

	var matched []string
	if strings.TrimSpace(partial) == "" {
		matched = r.zones
	} else {
		ranks := fuzzy.RankFindNormalizedFold(strings.TrimSpace(partial), r.zones)
		sort.Sort(ranks)
		for _, rk := range ranks {
			matched = append(matched, rk.Target)
		}
	}
	if len(matched) > maxChoices {
		matched = matched[:maxChoices]
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(matched))
	for _, z := range matched {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: z, Value: z})
	}
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		log.Error("timezone autocomplete", "err", err)
	}
}

// loadZones enumerates IANA zone names from the system tzdata. The stdlib
// can load zones but not list them, so we read the zoneinfo tree directly and
// fall back to a small builtin set on hosts without one.
func loadZones() []string {
	for _, base := range []string{"/usr/share/zoneinfo", "/usr/lib/zoneinfo", "/etc/zoneinfo"} {
		zones := readZoneDir(base)
		if len(zones) > 0 {
			sort.Strings(zones)
			return zones
		}
	}
	return []string{
		"Africa/Cairo", "America/Chicago", "America/Los_Angeles", "America/New_York",
		"America/Sao_Paulo", "Asia/Seoul", "Asia/Shanghai", "Asia/Tokyo",
		"Australia/Sydney", "Europe/Berlin", "Europe/London", "Europe/Madrid",
		"Europe/Moscow", "Europe/Paris", "UTC",
	}
}

func readZoneDir(base string) []string {
	skip := map[string]bool{"posix": true, "right": true, "SystemV": true, "Etc": true}
	var zones []string
	root := os.DirFS(base)
	_ = fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skip[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		// Zone files start with an uppercase letter and have no extension;
		// everything else in the tree (zone.tab, tzdata.zi, posixrules,
		// leapseconds...) fails one of those.
		name := d.Name()
		if strings.Contains(name, ".") || name[0] < 'A' || name[0] > 'Z' {
			return nil
		}
		zones = append(zones, path)
		return nil
	})
	return zones
}
