package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/scrim-matchmaker/internal/adapters/discord"
	"github.com/jose-valero/scrim-matchmaker/internal/app/service"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/config"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/metrics"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate", "err", err)
	}
	log.Info("✅ DB ready and migrated")

	// Repos
	scrimRepo := storage.NewScrimRepo(db)
	userRepo := storage.NewUserRepo(db)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Info("✅ connected", "user", s.State.User.Username, "id", s.State.User.ID)

	// Service
	svc := service.NewScrimService(scrimRepo, userRepo, nil)

	// Router
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, svc)
	if err := r.Register(); err != nil {
		log.Fatal("registering commands", "err", err)
	}
	r.Handlers()
	log.Info("✅ commands registered", "guild", cfg.DiscordGuild)

	// Metrics sidecar
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Error("metrics server", "err", err)
		}
	}()

	// Wait for signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
