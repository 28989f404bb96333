package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/jose-valero/scrim-matchmaker/internal/app/service"
)

func (r *Router) handleFindScrim(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID string) {
	data := ic.ApplicationCommandData()
	var in service.CreateScrimInput
	in.Region, _ = optString(data, "region")
	in.Platform, _ = optString(data, "platform")
	in.Range, _ = optString(data, "range")
	in.When, _ = optString(data, "time")
	if team, ok := optString(data, "team_name"); ok && team != "" {
		in.TeamName = &team
	}

	sc, err := r.svc.PrepareScrim(ctx, userID, in)
	if err != nil {
		replyErr(s, ic, err)
		return
	}

	p := &pendingConfirm{userID: userID, ic: ic.Interaction, scrim: sc}
	id := r.reg.addPending(p, func(p *pendingConfirm) {
		// Timed out unanswered; the message disappears.
		if err := s.FollowupMessageDelete(p.ic, p.msgID); err != nil {
			log.Debug("confirm cleanup", "err", err)
		}
	})

	msg, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: fmt.Sprintf("Looking for a scrim in %s/%s at %s on <t:%d:F>. Please confirm:",
			sc.Region, sc.Platform, sc.Range, sc.Time.Unix()),
		Flags: discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "sm|c|" + id + "|confirm", Style: discordgo.SuccessButton, Label: "Confirm"},
				discordgo.Button{CustomID: "sm|c|" + id + "|abort", Style: discordgo.DangerButton, Label: "Cancel"},
			},
		}},
	})
	if err != nil {
		r.reg.removePending(id)
		log.Error("find-scrim confirm message", "err", err)
		return
	}
	p.msgID = msg.ID
}

func (r *Router) handleConfirmComponent(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID, id, action string) {
	p := r.reg.peekPending(id)
	if p == nil || p.userID != userID {
		AckComponent(s, ic)
		return
	}

	switch action {
	case "confirm":
		r.reg.removePending(id)
		sc, err := r.svc.SaveScrim(ctx, p.scrim)
		if err != nil {
			AckComponent(s, ic)
			replyErr(s, ic, err)
			return
		}
		UpdateComponentMessage(s, ic, fmt.Sprintf(
			"Looking for a scrim in %s/%s at %s on <t:%d:F>\nUse `/scrims` to see potential matches.",
			sc.Region, sc.Platform, sc.Range, sc.Time.Unix()), []discordgo.MessageComponent{})
	case "abort":
		r.reg.removePending(id)
		UpdateComponentMessage(s, ic, "Cancelled", []discordgo.MessageComponent{})
	default:
		AckComponent(s, ic)
	}
}
