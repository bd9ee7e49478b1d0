package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// ============================================================================
// Notification/Reporting Sink
// ============================================================================
//
// DM delivery is best effort: failures never roll back the moderation
// action, they only flip the public-log mention. Every outbound call is
// bounded by a timeout and treated as a delivery failure on expiry.

const notifyTimeout = 10 * time.Second

// Notify sends a DM to the user and reports whether delivery succeeded.
func Notify(ctx context.Context, client *bot.Client, userID snowflake.ID, text string) bool {
	dmCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	dmChannel, err := client.Rest.CreateDMChannel(userID, rest.WithCtx(dmCtx))
	if err != nil {
		LogReport(MsgReportDMChannelFail, userID, err)
		return false
	}

	_, err = client.Rest.CreateMessage(dmChannel.ID(),
		discord.NewMessageCreateBuilder().SetContent(text).Build(),
		rest.WithCtx(dmCtx))
	if err != nil {
		LogReport(MsgReportDMSendFail, userID, err)
		return false
	}
	return true
}

// PostPublicLog posts to the public moderation log channel. The user is
// only @mentioned when their DM could not be delivered; otherwise the
// entry stays anonymous to avoid redundant pings.
func PostPublicLog(ctx context.Context, client *bot.Client, userID snowflake.ID, content string, mentionUser bool) {
	if GlobalConfig == nil || GlobalConfig.PublicLogChannelID == "" {
		return
	}
	channelID, err := snowflake.Parse(GlobalConfig.PublicLogChannelID)
	if err != nil {
		LogReport(MsgReportBadChannelID, GlobalConfig.PublicLogChannelID, err)
		return
	}

	if mentionUser {
		content = fmt.Sprintf("<@%s> %s", userID, content)
	}

	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if _, err := client.Rest.CreateMessage(channelID,
		discord.NewMessageCreateBuilder().SetContent(content).Build(),
		rest.WithCtx(sendCtx)); err != nil {
		LogReport(MsgReportPublicLogFail, err)
	}
}

// --- Moderator Reports ---

type ModReport struct {
	GuildID   snowflake.ID
	UserID    snowflake.ID
	ChannelID snowflake.ID
	Word      string
	Content   string
}

// SendModReport posts a violation report with action buttons to the
// moderator channel.
func SendModReport(ctx context.Context, client *bot.Client, report ModReport) {
	if GlobalConfig == nil || GlobalConfig.ModChannelID == "" {
		return
	}
	channelID, err := snowflake.Parse(GlobalConfig.ModChannelID)
	if err != nil {
		LogReport(MsgReportBadChannelID, GlobalConfig.ModChannelID, err)
		return
	}

	content := report.Content
	if len(content) > 900 {
		content = content[:900] + "..."
	}
	body := fmt.Sprintf(MsgReportBody, report.UserID, report.ChannelID, report.Word, content)

	row := discord.NewActionRow(
		discord.NewButton(discord.ButtonStyleDanger, "Ban", fmt.Sprintf("modreport:%s:ban", report.UserID), "", 0),
		discord.NewButton(discord.ButtonStyleSecondary, "Kick", fmt.Sprintf("modreport:%s:kick", report.UserID), "", 0),
		discord.NewButton(discord.ButtonStyleSuccess, "Dismiss", fmt.Sprintf("modreport:%s:dismiss", report.UserID), "", 0),
	)

	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if _, err := client.Rest.CreateMessage(channelID,
		discord.NewMessageCreateBuilder().
			SetContent(body).
			AddComponents(row).
			Build(),
		rest.WithCtx(sendCtx)); err != nil {
		LogReport(MsgReportModSendFail, err)
	}
}

func init() {
	RegisterComponentHandler("modreport:", handleModReportAction)
}

func handleModReportAction(event *events.ComponentInteractionCreate) {
	parts := strings.Split(event.Data.CustomID(), ":")
	if len(parts) != 3 {
		return
	}
	userID, err := snowflake.Parse(parts[1])
	if err != nil {
		return
	}
	action := parts[2]

	guildID := event.GuildID()
	if guildID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(AppContext, notifyTimeout)
	defer cancel()

	client := event.Client()
	moderator := event.User()

	var outcome string
	switch action {
	case "ban":
		if _, err := CreateCase(ctx, &ModerationCase{
			GuildID:    *guildID,
			Type:       CaseBan,
			UserID:     userID,
			ModID:      moderator.ID,
			Reason:     MsgReportButtonReason,
			Punishment: "PERMANENT",
		}); err != nil {
			LogError(MsgReportCaseFail, err)
		}
		if err := client.Rest.AddBan(*guildID, userID, 0, rest.WithCtx(ctx)); err != nil {
			LogReport(MsgReportBanFail, userID, err)
			outcome = fmt.Sprintf(MsgReportActionFail, "ban", userID)
		} else {
			outcome = fmt.Sprintf(MsgReportBanned, userID, moderator.ID)
		}
	case "kick":
		if _, err := CreateCase(ctx, &ModerationCase{
			GuildID: *guildID,
			Type:    CaseKick,
			UserID:  userID,
			ModID:   moderator.ID,
			Reason:  MsgReportButtonReason,
		}); err != nil {
			LogError(MsgReportCaseFail, err)
		}
		if err := client.Rest.RemoveMember(*guildID, userID, rest.WithCtx(ctx)); err != nil {
			LogReport(MsgReportKickFail, userID, err)
			outcome = fmt.Sprintf(MsgReportActionFail, "kick", userID)
		} else {
			outcome = fmt.Sprintf(MsgReportKicked, userID, moderator.ID)
		}
	case "dismiss":
		outcome = fmt.Sprintf(MsgReportDismissed, moderator.ID)
	default:
		return
	}

	_ = event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetContent(event.Message.Content + "\n\n" + outcome).
		ClearComponents().
		Build())
}

// --- Message Constants ---

const (
	MsgReportDMChannelFail = "Failed to create DM channel for user %s: %v"
	MsgReportDMSendFail    = "Failed to deliver DM to user %s: %v"
	MsgReportBadChannelID  = "Invalid channel ID '%s' in config: %v"
	MsgReportPublicLogFail = "Failed to post public log entry: %v"
	MsgReportModSendFail   = "Failed to post moderator report: %v"
	MsgReportCaseFail      = "Failed to record case: %v"
	MsgReportBanFail       = "Failed to ban user %s: %v"
	MsgReportKickFail      = "Failed to kick user %s: %v"
	MsgReportButtonReason  = "Filter report action"
	MsgReportBody          = "**Filter Report**\n" +
		"> User: <@%s>\n" +
		"> Channel: <#%s>\n" +
		"> Rule: ||%s||\n" +
		"> Message: %s"
	MsgReportBanned     = "Banned <@%s> (by <@%s>)"
	MsgReportKicked     = "Kicked <@%s> (by <@%s>)"
	MsgReportDismissed  = "Dismissed (by <@%s>)"
	MsgReportActionFail = "Failed to %s <@%s>; see logs."
)
