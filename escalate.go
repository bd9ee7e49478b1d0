package main

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// ============================================================================
// Escalation Policy
// ============================================================================

const (
	WarnKickThreshold = 400
	WarnBanThreshold  = 600
)

type EscalationAction int

const (
	ActionWarnOnly EscalationAction = iota
	ActionKick
	ActionBan
)

func (a EscalationAction) String() string {
	switch a {
	case ActionKick:
		return "KICK"
	case ActionBan:
		return "BAN"
	default:
		return "WARN_ONLY"
	}
}

// Decide maps a warn-point total to an automatic action. Crossing 600
// always bans. Crossing 400 kicks exactly once per user lifetime, and
// only while they are still a member. Everything else stays a warn.
func Decide(warnPoints int, wasWarnKicked bool, isGuildMember bool) EscalationAction {
	if warnPoints >= WarnBanThreshold {
		return ActionBan
	}
	if warnPoints >= WarnKickThreshold && !wasWarnKicked && isGuildMember {
		return ActionKick
	}
	return ActionWarnOnly
}

// RunEscalation applies the decision for a just-written point total. It
// runs synchronously after the WARN case is persisted and must be given
// the total returned by that write, not a re-read. The passed context
// should be the application context: an escalation that has begun runs
// to completion regardless of the triggering interaction.
func RunEscalation(ctx context.Context, client *bot.Client, guildID, userID snowflake.ID, newTotal int) {
	profile, err := GetProfile(ctx, guildID, userID)
	if err != nil {
		LogError(MsgEscalationProfileFail, userID, err)
		return
	}

	isMember := true
	memberCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	if _, err := client.Rest.GetMember(guildID, userID, rest.WithCtx(memberCtx)); err != nil {
		isMember = false
	}
	cancel()

	switch Decide(newTotal, profile.WasWarnKicked, isMember) {
	case ActionBan:
		escalateBan(ctx, client, guildID, userID, newTotal)
	case ActionKick:
		// The flag flip is the single gate: racing warns both decide
		// Kick, only the one that flips the flag acts.
		flipped, err := MarkWarnKicked(ctx, guildID, userID)
		if err != nil {
			LogError(MsgEscalationFlagFail, userID, err)
			return
		}
		if flipped {
			escalateKick(ctx, client, guildID, userID, newTotal)
		}
	}
}

func escalateBan(ctx context.Context, client *bot.Client, guildID, userID snowflake.ID, total int) {
	if _, err := CreateCase(ctx, &ModerationCase{
		GuildID:    guildID,
		Type:       CaseBan,
		UserID:     userID,
		ModID:      client.ApplicationID,
		Reason:     fmt.Sprintf(MsgEscalationBanReason, total),
		Punishment: "PERMANENT",
	}); err != nil {
		LogError(MsgEscalationCaseFail, err)
	}

	// DM before the ban lands; afterwards the channel is gone.
	delivered := Notify(ctx, client, userID, fmt.Sprintf(MsgEscalationBanDM, guildName(client, guildID), total))

	banCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := client.Rest.AddBan(guildID, userID, 0, rest.WithCtx(banCtx)); err != nil {
		LogError(MsgEscalationBanFail, userID, err)
		return
	}

	LogEscalation(MsgEscalationBanned, userID, total)
	PostPublicLog(ctx, client, userID, fmt.Sprintf(MsgEscalationBanLog, total), !delivered)
}

func escalateKick(ctx context.Context, client *bot.Client, guildID, userID snowflake.ID, total int) {
	if _, err := CreateCase(ctx, &ModerationCase{
		GuildID: guildID,
		Type:    CaseKick,
		UserID:  userID,
		ModID:   client.ApplicationID,
		Reason:  fmt.Sprintf(MsgEscalationKickReason, total),
	}); err != nil {
		LogError(MsgEscalationCaseFail, err)
	}

	delivered := Notify(ctx, client, userID, fmt.Sprintf(MsgEscalationKickDM, guildName(client, guildID), total))

	kickCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := client.Rest.RemoveMember(guildID, userID, rest.WithCtx(kickCtx)); err != nil {
		LogError(MsgEscalationKickFail, userID, err)
		return
	}

	LogEscalation(MsgEscalationKicked, userID, total)
	PostPublicLog(ctx, client, userID, fmt.Sprintf(MsgEscalationKickLog, total), !delivered)
}

func guildName(client *bot.Client, guildID snowflake.ID) string {
	if guild, ok := client.Caches.Guild(guildID); ok {
		return guild.Name
	}
	return "the server"
}

// --- Message Constants ---

const (
	MsgEscalationProfileFail = "Failed to load profile for user %s: %v"
	MsgEscalationFlagFail    = "Failed to flip warn-kick flag for user %s: %v"
	MsgEscalationCaseFail    = "Failed to record escalation case: %v"
	MsgEscalationBanFail     = "Failed to ban user %s: %v"
	MsgEscalationKickFail    = "Failed to kick user %s: %v"
	MsgEscalationBanned      = "User %s banned at %d warn points"
	MsgEscalationKicked      = "User %s kicked at %d warn points"
	MsgEscalationBanReason   = "Automatic ban: reached %d warn points"
	MsgEscalationKickReason  = "Automatic kick: reached %d warn points"
	MsgEscalationBanDM       = "You have been **banned** from %s for reaching %d warn points."
	MsgEscalationKickDM      = "You have been **kicked** from %s for reaching %d warn points. You may rejoin, but further warnings will lead to a ban."
	MsgEscalationBanLog      = "was banned automatically (%d warn points)."
	MsgEscalationKickLog     = "was kicked automatically (%d warn points)."
)
