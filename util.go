package main

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
)

func intPtr(i int) *int {
	return &i
}

func respondEphemeral(event *events.ApplicationCommandInteractionCreate, content string) {
	if err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build()); err != nil {
		LogError(MsgRespondError, err)
	}
}

func respondPublic(event *events.ApplicationCommandInteractionCreate, content string) {
	if err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		Build()); err != nil {
		LogError(MsgRespondError, err)
	}
}

const (
	MsgRespondError       = "Failed to respond to interaction: %v"
	ErrGuildOnly          = "This command can only be used in a server."
	ErrSomethingWentWrong = "**Something went wrong**\nPlease try again later or contact the maintainer."
)
