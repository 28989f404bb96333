package discord

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

func (r *Router) handleCancelScrims(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID string) {
	scrims, err := r.svc.ListUpcoming(ctx, userID)
	if err != nil {
		replyErr(s, ic, err)
		return
	}
	if len(scrims) == 0 {
		ReplyEphemeral(s, ic, "You have no upcoming scrims")
		return
	}
	loc, err := r.svc.Timezone(ctx, userID)
	if err != nil {
		replyErr(s, ic, err)
		return
	}

	opts := make([]discordgo.SelectMenuOption, 0, len(scrims))
	for i, sc := range scrims {
		opts = append(opts, discordgo.SelectMenuOption{
			Label: truncate(fmtScrimLocal(sc, loc), 100),
			Value: strconv.Itoa(i),
		})
	}

	p := &pendingConfirm{userID: userID, ic: ic.Interaction, scrims: scrims}
	id := r.reg.addPending(p, func(p *pendingConfirm) {
		if err := s.FollowupMessageDelete(p.ic, p.msgID); err != nil {
			log.Debug("cancel-scrims cleanup", "err", err)
		}
	})

	zero := 0
	msg, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: "Select the scrims you want to cancel:",
		Flags:   discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{discordgo.SelectMenu{
					CustomID:  "sm|x|" + id + "|select",
					MinValues: &zero,
					MaxValues: len(scrims),
					Options:   opts,
				}},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "sm|x|" + id + "|confirm", Style: discordgo.DangerButton, Label: "Confirm"},
				},
			},
		},
	})
	if err != nil {
		r.reg.removePending(id)
		log.Error("cancel-scrims message", "err", err)
		return
	}
	p.msgID = msg.ID
}

func (r *Router) handleCancelComponent(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID, id, action string) {
	p := r.reg.peekPending(id)
	if p == nil || p.userID != userID {
		AckComponent(s, ic)
		return
	}

	switch action {
	case "select":
		p.selected = ic.MessageComponentData().Values
		AckComponent(s, ic)

	case "confirm":
		r.reg.removePending(id)
		if len(p.selected) == 0 {
			UpdateComponentMessage(s, ic, "No scrims selected.", []discordgo.MessageComponent{})
			return
		}
		for _, v := range p.selected {
			i, err := strconv.Atoi(v)
			if err != nil || i < 0 || i >= len(p.scrims) {
				continue
			}
			if err := r.svc.CancelByID(ctx, p.scrims[i].ID); err != nil {
				AckComponent(s, ic)
				replyErr(s, ic, err)
				return
			}
		}
		UpdateComponentMessage(s, ic, "Scrim(s) cancelled.", []discordgo.MessageComponent{})

	default:
		AckComponent(s, ic)
	}
}
