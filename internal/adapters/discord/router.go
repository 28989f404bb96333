package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/jose-valero/scrim-matchmaker/internal/app/service"
	"github.com/jose-valero/scrim-matchmaker/internal/domain"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/metrics"
)

// Component custom IDs are "sm|<kind>|<id>|..." where kind is c (find-scrim
// confirm), x (cancel-scrims picker) or s (scrims session). Anything that
// doesn't parse, or references a dead session, is ignored.
const customIDPrefix = "sm"

type Router struct {
	s       *discordgo.Session
	guildID string
	svc     *service.ScrimService

	reg          *sessionRegistry
	clickLimiter *userLimiter
	zones        []string
}

func NewRouter(s *discordgo.Session, guildID string, svc *service.ScrimService) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		svc:          svc,
		reg:          newSessionRegistry(),
		clickLimiter: newUserLimiter(700 * time.Millisecond),
		zones:        loadZones(),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic in interaction handler", "panic", rec)
				ReplyEphemeral(s, ic, "⚠️ Something went wrong. Please try again.")
			}
		}()

		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleCommand(s, ic)
		case discordgo.InteractionApplicationCommandAutocomplete:
			r.handleAutocomplete(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleComponent(s, ic)
		}
	})
}

func (r *Router) handleCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ApplicationCommandData()
	userID := interactionUserID(ic)
	log.Info("slash", "command", data.Name, "user", userID)
	metrics.CommandsTotal.WithLabelValues(data.Name).Inc()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch data.Name {
	case "find-scrim":
		r.handleFindScrim(ctx, s, ic, userID)
	case "scrims":
		r.handleScrims(ctx, s, ic, userID)
	case "cancel-scrims":
		r.handleCancelScrims(ctx, s, ic, userID)
	case "timezone":
		r.handleTimezone(ctx, s, ic, userID)
	}
}

func (r *Router) handleComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	parts := strings.Split(ic.MessageComponentData().CustomID, "|")
	if len(parts) < 4 || parts[0] != customIDPrefix {
		AckComponent(s, ic)
		return
	}
	userID := interactionUserID(ic)
	if !r.clickLimiter.Allow(userID) {
		AckComponent(s, ic)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	switch parts[1] {
	case "c":
		r.handleConfirmComponent(ctx, s, ic, userID, parts[2], parts[3])
	case "x":
		r.handleCancelComponent(ctx, s, ic, userID, parts[2], parts[3])
	case "s":
		if len(parts) < 5 {
			AckComponent(s, ic)
			return
		}
		r.handleSessionComponent(ctx, s, ic, userID, parts[2], parts[3], parts[4])
	default:
		AckComponent(s, ic)
	}
}

// replyErr maps the error taxonomy to user replies: input errors verbatim,
// anything else logged and masked.
func replyErr(s *discordgo.Session, ic *discordgo.InteractionCreate, err error) {
	if domain.IsInputError(err) {
		ReplyEphemeral(s, ic, "❌ "+err.Error())
		return
	}
	log.Error("command failed", "err", err)
	ReplyEphemeral(s, ic, "⚠️ Something went wrong. Please try again.")
}

func optString(data discordgo.ApplicationCommandInteractionData, name string) (string, bool) {
	for _, o := range data.Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
	}
	return "", false
}
