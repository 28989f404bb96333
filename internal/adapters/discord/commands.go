package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "find-scrim",
		Description: "Look for a scrim",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "region",
				Description: "Region to look in",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "EU", Value: "EU"},
					{Name: "NA", Value: "NA"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "platform",
				Description: "Platform to look on",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "PC", Value: "PC"},
					{Name: "Console", Value: "Console"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "range",
				Description: "Single rank or range of ranks to look for, e.g. `4.3k` or `4k-4.5k`",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "time",
				Description: "Start time, e.g. `20:00`, `8:30pm` or `tomorrow 8pm`",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "team_name",
				Description: "Optional team name to show to other users",
			},
		},
	},
	{
		Name:        "scrims",
		Description: "List your upcoming scrims and manage their matches",
	},
	{
		Name:        "cancel-scrims",
		Description: "Cancel scrims. This removes them from the matchmaker",
	},
	{
		Name:        "timezone",
		Description: "Set or show your timezone",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "zone",
			Description:  "Timezone to set. Use autocomplete to see available timezones",
			Autocomplete: true,
		}},
	},
}
