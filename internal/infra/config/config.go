package config

import (
	"os"

	"github.com/charmbracelet/log"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string // optional; empty registers commands globally
	MetricsAddr  string // optional, default :8080
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("missing env %s", k)
		}
		return v
	}

	cfg := Config{
		DatabaseURL:  get("DATABASE_URL", true),
		DiscordToken: get("DISCORD_BOT_TOKEN", true),
		DiscordGuild: get("DISCORD_GUILD_ID", false),
		MetricsAddr:  get("METRICS_ADDR", false),
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":8080"
	}
	return cfg
}
