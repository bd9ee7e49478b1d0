package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
)

// ============================================================================
// Raid Phrases
// ============================================================================
//
// Bare phrases with no metadata; only their existence in the store
// matters. Managed by the same moderator tier as the word filter.

func init() {
	raidPerm := discord.PermissionManageGuild

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "raidphrase",
		Description:              "Manage raid phrases",
		DefaultMemberPermissions: omit.New(&raidPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "add",
				Description: "Add a raid phrase",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "phrase",
						Description: "The phrase to add",
						Required:    true,
						MinLength:   intPtr(1),
						MaxLength:   intPtr(200),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove a raid phrase",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "phrase",
						Description: "The phrase to remove",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "List raid phrases",
			},
		},
	}, func(event *events.ApplicationCommandInteractionCreate) {
		data := event.SlashCommandInteractionData()
		subCmd := data.SubCommandName
		if subCmd == nil {
			return
		}

		switch *subCmd {
		case "add":
			handleRaidPhraseAdd(event, data)
		case "remove":
			handleRaidPhraseRemove(event, data)
		case "list":
			handleRaidPhraseList(event)
		}
	})
}

func handleRaidPhraseAdd(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, ErrGuildOnly)
		return
	}

	phrase := strings.TrimSpace(data.String("phrase"))
	if phrase == "" {
		respondEphemeral(event, ErrRaidEmptyPhrase)
		return
	}

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	if err := AddRaidPhrase(ctx, *guildID, phrase); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			respondEphemeral(event, fmt.Sprintf(ErrRaidDuplicate, phrase))
			return
		}
		LogError(MsgRaidAddFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	LogFilter(MsgRaidPhraseAdded, phrase, *guildID)
	respondEphemeral(event, fmt.Sprintf(MsgRaidAdded, phrase))
}

func handleRaidPhraseRemove(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, ErrGuildOnly)
		return
	}

	phrase := strings.TrimSpace(data.String("phrase"))

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	removed, err := RemoveRaidPhrase(ctx, *guildID, phrase)
	if err != nil {
		LogError(MsgRaidRemoveFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}
	if !removed {
		respondEphemeral(event, fmt.Sprintf(ErrRaidNotFound, phrase))
		return
	}

	LogFilter(MsgRaidPhraseRemoved, phrase, *guildID)
	respondEphemeral(event, fmt.Sprintf(MsgRaidRemoved, phrase))
}

func handleRaidPhraseList(event *events.ApplicationCommandInteractionCreate) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, ErrGuildOnly)
		return
	}

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	phrases, err := GetRaidPhrases(ctx, *guildID)
	if err != nil {
		LogError(MsgRaidListFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}
	if len(phrases) == 0 {
		respondEphemeral(event, MsgRaidListEmpty)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(MsgRaidListHeader, len(phrases)))
	for _, p := range phrases {
		sb.WriteString(fmt.Sprintf("> ||%s||\n", p))
		if sb.Len() > 1800 {
			sb.WriteString("> ...\n")
			break
		}
	}
	respondEphemeral(event, sb.String())
}

// --- Message Constants ---

const (
	MsgRaidAddFail       = "Failed to add raid phrase: %v"
	MsgRaidRemoveFail    = "Failed to remove raid phrase: %v"
	MsgRaidListFail      = "Failed to list raid phrases: %v"
	MsgRaidPhraseAdded   = "Raid phrase '%s' added for guild %s"
	MsgRaidPhraseRemoved = "Raid phrase '%s' removed for guild %s"
	MsgRaidAdded         = "Raid phrase ||%s|| added."
	MsgRaidRemoved       = "Raid phrase ||%s|| removed."
	MsgRaidListEmpty     = "No raid phrases configured."
	MsgRaidListHeader    = "**Raid Phrases** (%d)\n\n"
	ErrRaidEmptyPhrase   = "**Validation Error**\nPhrase cannot be empty."
	ErrRaidDuplicate     = "**Validation Error**\n'%s' is already a raid phrase."
	ErrRaidNotFound      = "**Not Found**\n'%s' is not a raid phrase."
)
