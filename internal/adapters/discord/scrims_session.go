package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/jose-valero/scrim-matchmaker/internal/app/service"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/metrics"
)

func (r *Router) handleScrims(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID string) {
	sess, err := r.svc.OpenSession(ctx, userID)
	if err != nil {
		replyErr(s, ic, err)
		return
	}
	if len(sess.Flows) == 0 {
		ReplyEphemeral(s, ic, "You have no upcoming scrims")
		return
	}

	loc := time.UTC
	if l, err := r.svc.Timezone(ctx, userID); err == nil {
		loc = l
	}

	us := &uiSession{userID: userID, sess: sess, root: ic.Interaction}
	id := r.reg.addSession(us, func(us *uiSession) { r.deleteSessionMessages(s, us) })

	now := time.Now()
	for i, f := range sess.Flows {
		msg, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
			Content:    renderFlow(f, now),
			Flags:      discordgo.MessageFlagsEphemeral,
			Components: flowComponents(id, i, f, loc),
		})
		if err != nil {
			log.Error("scrims followup", "err", err)
			r.reg.removeSession(id)
			return
		}
		us.msgIDs = append(us.msgIDs, msg.ID)
	}

	ctrl, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: "One message per scrim above. Controls stay live for 30 minutes.",
		Flags:   discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "sm|s|" + id + "|0|remove", Style: discordgo.SecondaryButton, Label: "Remove messages"},
			},
		}},
	})
	if err != nil {
		log.Error("scrims controls followup", "err", err)
		return
	}
	us.msgIDs = append(us.msgIDs, ctrl.ID)
}

// flowComponents builds the controls matching the flow's state, all keyed by
// session id and flow index.
func flowComponents(sid string, idx int, f *service.SubFlow, loc *time.Location) []discordgo.MessageComponent {
	key := func(action string) string {
		return fmt.Sprintf("sm|s|%s|%d|%s", sid, idx, action)
	}

	switch f.State {
	case service.StateMatched:
		return []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: key("revoke"), Style: discordgo.DangerButton, Label: "Revoke match"},
			},
		}}

	case service.StateCancelled:
		return []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: key("restore"), Style: discordgo.SuccessButton, Label: "Restore"},
			},
		}}

	default: // Looking
		var rows []discordgo.MessageComponent
		if len(f.Candidates) > 0 {
			opts := make([]discordgo.SelectMenuOption, 0, len(f.Candidates))
			for n, c := range f.Candidates {
				opts = append(opts, discordgo.SelectMenuOption{
					Label:       truncate(fmt.Sprintf("%d) %s", n+1, fmtScrimLocal(c.Scrim, loc)), 100),
					Value:       strconv.Itoa(n),
					Description: truncate("accept this match", 100),
				})
			}
			one := 1
			rows = append(rows, discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{discordgo.SelectMenu{
					CustomID:    key("accept"),
					Placeholder: "Accept a match…",
					MinValues:   &one,
					MaxValues:   1,
					Options:     opts,
				}},
			})
		}
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: key("refresh"), Style: discordgo.SecondaryButton, Label: "Refresh"},
				discordgo.Button{CustomID: key("cancel"), Style: discordgo.DangerButton, Label: "Cancel scrim"},
			},
		})
		return rows
	}
}

var knownActions = map[string]bool{
	"accept": true, "refresh": true, "cancel": true,
	"revoke": true, "restore": true, "remove": true,
}

func (r *Router) handleSessionComponent(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID, sid, idxStr, action string) {
	if knownActions[action] {
		metrics.ComponentClicksTotal.WithLabelValues(action).Inc()
	}

	us := r.reg.session(sid)
	if us == nil || us.userID != userID {
		AckComponent(s, ic)
		return
	}

	if action == "remove" {
		if r.reg.removeSession(sid) != nil {
			r.deleteSessionMessages(s, us)
		}
		AckComponent(s, ic)
		return
	}

	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(us.sess.Flows) {
		AckComponent(s, ic)
		return
	}

	us.mu.Lock()
	defer us.mu.Unlock()
	f := us.sess.Flows[idx]

	switch action {
	case "accept":
		values := ic.MessageComponentData().Values
		if len(values) != 1 {
			AckComponent(s, ic)
			return
		}
		n, convErr := strconv.Atoi(values[0])
		if convErr != nil {
			AckComponent(s, ic)
			return
		}
		err = r.svc.Accept(ctx, f, n)
	case "refresh":
		err = r.svc.Refresh(ctx, f)
	case "cancel":
		err = r.svc.CancelFlow(ctx, f)
	case "revoke":
		err = r.svc.Revoke(ctx, f)
	case "restore":
		err = r.svc.RestoreFlow(ctx, f)
	default:
		// Unrecognized action tags are a no-op; the session keeps going.
		AckComponent(s, ic)
		return
	}

	if errors.Is(err, service.ErrInvalidAction) {
		AckComponent(s, ic)
		return
	}
	if err != nil {
		AckComponent(s, ic)
		replyErr(s, ic, err)
		return
	}

	loc := time.UTC
	if l, tzErr := r.svc.Timezone(ctx, userID); tzErr == nil {
		loc = l
	}
	UpdateComponentMessage(s, ic, renderFlow(f, time.Now()), flowComponents(sid, idx, f, loc))
}

func (r *Router) deleteSessionMessages(s *discordgo.Session, us *uiSession) {
	for _, id := range us.msgIDs {
		if err := s.FollowupMessageDelete(us.root, id); err != nil {
			log.Debug("session cleanup", "err", err)
		}
	}
}
