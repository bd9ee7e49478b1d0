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
// Message Monitor
// ============================================================================
//
// Incoming and edited messages run through the word matcher and the
// inspector. A violation deletes the message, consults the punish
// cooldown (possibly layering a temporary mute on top) and feeds the
// reporting sink. Moderator-level authors are exempt from scanning.

const monitorBypassLevel = 5

func init() {
	RegisterMessageCreateHandler(func(event *events.MessageCreate) {
		if event.Message.Author.Bot || event.GuildID == nil {
			return
		}
		scanMessage(event.Client(), event.Message, *event.GuildID)
	})

	RegisterMessageUpdateHandler(func(event *events.MessageUpdate) {
		if event.Message.Author.Bot || event.GuildID == nil {
			return
		}
		scanMessage(event.Client(), event.Message, *event.GuildID)
	})

	RegisterMemberUpdateHandler(func(event *events.GuildMemberUpdate) {
		scanNickname(event.Client(), event.GuildID, event.Member, event.OldMember)
	})
}

func scanMessage(client *bot.Client, msg discord.Message, guildID snowflake.ID) {
	ctx := AppContext
	roleIDs := authorRoleIDs(client, guildID, msg)
	level := permissionLevel(client, guildID, msg.Author.ID, roleIDs)

	if level >= monitorBypassLevel && !hasLowBypassRules(ctx, guildID, level) {
		return
	}

	rules, err := CachedFilterRules(ctx, guildID)
	if err != nil {
		LogError(MsgMonitorRulesFail, guildID, err)
		return
	}

	fctx := FilterContext{
		PermissionLevel: level,
		IsDeveloper:     hasRoleID(roleIDs, GlobalConfig.DeveloperRoleID),
		InDevChannel:    msg.ChannelID.String() == GlobalConfig.DevelopmentChannelID,
	}

	if matches := EvaluateFilters(msg.Content, rules, fctx); len(matches) > 0 {
		handleFilterViolation(ctx, client, msg, guildID, matches)
		return
	}

	if level >= monitorBypassLevel {
		return
	}

	if CheckInvites(ctx, client, msg, guildID) {
		handleInspectorViolation(ctx, client, msg, guildID, "invite link")
		return
	}
	if CheckScamLinks(ctx, client, msg) {
		handleInspectorViolation(ctx, client, msg, guildID, "scam link")
		return
	}
	if CheckSpoilersAndNewlines(ctx, client, msg, roleIDs) {
		handleInspectorViolation(ctx, client, msg, guildID, "spoiler/newline flood")
	}
}

func handleFilterViolation(ctx context.Context, client *bot.Client, msg discord.Message, guildID snowflake.ID, matches []*FilterRule) {
	deleteViolation(ctx, client, msg)

	words := make([]string, 0, len(matches))
	for _, m := range matches {
		words = append(words, m.Word)
	}
	word := strings.Join(words, ", ")
	LogMonitor(MsgMonitorFiltered, word, msg.Author.ID)

	if filterCooldown.ShouldAlsoMute(guildID, msg.Author.ID) {
		if err := MuteMember(ctx, client, guildID, msg.Author.ID, client.ApplicationID, FilterMuteDuration, FilterMuteReason); err != nil {
			LogError(MsgMonitorMuteFail, msg.Author.ID, err)
		}
	}

	if ContentThrottleAllow(msg.Author.ID.String()) {
		Notify(ctx, client, msg.Author.ID, fmt.Sprintf(MsgMonitorFilterDM, guildName(client, guildID)))
	}
	SendModReport(ctx, client, ModReport{
		GuildID:   guildID,
		UserID:    msg.Author.ID,
		ChannelID: msg.ChannelID,
		Word:      word,
		Content:   msg.Content,
	})
}

func handleInspectorViolation(ctx context.Context, client *bot.Client, msg discord.Message, guildID snowflake.ID, kind string) {
	LogMonitor(MsgMonitorInspected, kind, msg.Author.ID)

	if filterCooldown.ShouldAlsoMute(guildID, msg.Author.ID) {
		if err := MuteMember(ctx, client, guildID, msg.Author.ID, client.ApplicationID, FilterMuteDuration, FilterMuteReason); err != nil {
			LogError(MsgMonitorMuteFail, msg.Author.ID, err)
		}
	}

	if ContentThrottleAllow(msg.Author.ID.String()) {
		Notify(ctx, client, msg.Author.ID, fmt.Sprintf(MsgMonitorInspectDM, kind, guildName(client, guildID)))
	}
	SendModReport(ctx, client, ModReport{
		GuildID:   guildID,
		UserID:    msg.Author.ID,
		ChannelID: msg.ChannelID,
		Word:      kind,
		Content:   msg.Content,
	})
}

// scanNickname checks a changed nickname against the filter rules. A
// nickname cannot be deleted like a message, so a match only reports.
func scanNickname(client *bot.Client, guildID snowflake.ID, member discord.Member, oldMember discord.Member) {
	newNick := ""
	if member.Nick != nil {
		newNick = *member.Nick
	}
	oldNick := ""
	if oldMember.Nick != nil {
		oldNick = *oldMember.Nick
	}
	if newNick == "" || newNick == oldNick {
		return
	}

	ctx := AppContext
	rules, err := CachedFilterRules(ctx, guildID)
	if err != nil {
		LogError(MsgMonitorRulesFail, guildID, err)
		return
	}

	level := permissionLevel(client, guildID, member.User.ID, member.RoleIDs)
	matches := EvaluateFilters(newNick, rules, FilterContext{PermissionLevel: level})
	if len(matches) == 0 {
		return
	}

	LogMonitor(MsgMonitorNickFiltered, newNick, member.User.ID)
	SendModReport(ctx, client, ModReport{
		GuildID: guildID,
		UserID:  member.User.ID,
		Word:    matches[0].Word,
		Content: fmt.Sprintf(MsgMonitorNickContent, newNick),
	})
}

// --- Mute/Unmute ---

// MuteMember assigns the muted role, records a MUTE case and schedules
// the unmute. The duration string on the case is the punishment field.
func MuteMember(ctx context.Context, client *bot.Client, guildID, userID, modID snowflake.ID, duration time.Duration, reason string) error {
	if GlobalConfig.MutedRoleID == "" {
		return fmt.Errorf("MUTED_ROLE_ID is not configured")
	}
	roleID, err := snowflake.Parse(GlobalConfig.MutedRoleID)
	if err != nil {
		return fmt.Errorf("invalid MUTED_ROLE_ID: %w", err)
	}

	muteCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := client.Rest.AddMemberRole(guildID, userID, roleID, rest.WithCtx(muteCtx)); err != nil {
		return fmt.Errorf("failed to assign muted role: %w", err)
	}

	if err := SetMuted(ctx, guildID, userID, true); err != nil {
		LogError(MsgMonitorProfileFail, userID, err)
	}

	until := time.Now().UTC().Add(duration)
	if _, err := CreateCase(ctx, &ModerationCase{
		GuildID:    guildID,
		Type:       CaseMute,
		UserID:     userID,
		ModID:      modID,
		Reason:     reason,
		Punishment: duration.String(),
		Until:      &until,
	}); err != nil {
		LogError(MsgReportCaseFail, err)
	}

	ScheduleUnmute(client, guildID, userID, duration)
	LogMonitor(MsgMonitorMuted, userID, duration)
	return nil
}

// ScheduleUnmute lifts the mute after the duration elapses. The timer is
// in-memory; a restart drops it, which mirrors the cooldown state.
func ScheduleUnmute(client *bot.Client, guildID, userID snowflake.ID, duration time.Duration) {
	safeGo(func() {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		select {
		case <-AppContext.Done():
			return
		case <-timer.C:
		}

		if err := UnmuteMember(AppContext, client, guildID, userID, client.ApplicationID, "Mute expired"); err != nil {
			LogError(MsgMonitorUnmuteFail, userID, err)
		}
	})
}

func UnmuteMember(ctx context.Context, client *bot.Client, guildID, userID, modID snowflake.ID, reason string) error {
	roleID, err := snowflake.Parse(GlobalConfig.MutedRoleID)
	if err != nil {
		return fmt.Errorf("invalid MUTED_ROLE_ID: %w", err)
	}

	unmuteCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := client.Rest.RemoveMemberRole(guildID, userID, roleID, rest.WithCtx(unmuteCtx)); err != nil {
		return fmt.Errorf("failed to remove muted role: %w", err)
	}

	if err := SetMuted(ctx, guildID, userID, false); err != nil {
		LogError(MsgMonitorProfileFail, userID, err)
	}

	if _, err := CreateCase(ctx, &ModerationCase{
		GuildID: guildID,
		Type:    CaseUnmute,
		UserID:  userID,
		ModID:   modID,
		Reason:  reason,
	}); err != nil {
		LogError(MsgReportCaseFail, err)
	}

	LogMonitor(MsgMonitorUnmuted, userID)
	return nil
}

// --- Permission Ladder ---

// permissionLevel maps a member's effective permissions to the rank the
// filter bypass levels are written against.
func permissionLevel(client *bot.Client, guildID, userID snowflake.ID, roleIDs []snowflake.ID) int {
	for _, owner := range GlobalConfig.OwnerIDs {
		if owner == userID.String() {
			return 10
		}
	}
	if guild, ok := client.Caches.Guild(guildID); ok && guild.OwnerID == userID {
		return 9
	}

	var perms discord.Permissions
	for _, roleID := range roleIDs {
		if role, ok := client.Caches.Role(guildID, roleID); ok {
			perms = perms.Add(role.Permissions)
		}
	}

	switch {
	case perms.Has(discord.PermissionAdministrator):
		return 8
	case perms.Has(discord.PermissionManageGuild):
		return 7
	case perms.Has(discord.PermissionBanMembers):
		return 6
	case perms.Has(discord.PermissionManageMessages):
		return 5
	case hasRoleID(roleIDs, GlobalConfig.DeveloperRoleID):
		return 2
	default:
		return 0
	}
}

func authorRoleIDs(client *bot.Client, guildID snowflake.ID, msg discord.Message) []snowflake.ID {
	if msg.Member != nil {
		return msg.Member.RoleIDs
	}
	if member, ok := client.Caches.Member(guildID, msg.Author.ID); ok {
		return member.RoleIDs
	}
	return nil
}

func hasRoleID(roleIDs []snowflake.ID, want string) bool {
	if want == "" {
		return false
	}
	for _, id := range roleIDs {
		if id.String() == want {
			return true
		}
	}
	return false
}

// hasLowBypassRules reports whether any rule would still apply at the
// given permission level, so privileged authors skip the scan cheaply.
func hasLowBypassRules(ctx context.Context, guildID snowflake.ID, level int) bool {
	rules, err := CachedFilterRules(ctx, guildID)
	if err != nil {
		return false
	}
	for _, r := range rules {
		if level < r.BypassLevel {
			return true
		}
	}
	return false
}

// --- Message Constants ---

const (
	MsgMonitorRulesFail    = "Failed to load filter rules for guild %s: %v"
	MsgMonitorFiltered     = "Filtered message (rule '%s') from user %s"
	MsgMonitorInspected    = "Removed %s from user %s"
	MsgMonitorNickFiltered = "Filtered nickname '%s' on user %s"
	MsgMonitorNickContent  = "nickname changed to '%s'"
	MsgMonitorMuteFail     = "Failed to mute user %s: %v"
	MsgMonitorUnmuteFail   = "Failed to unmute user %s: %v"
	MsgMonitorProfileFail  = "Failed to update profile for user %s: %v"
	MsgMonitorMuted        = "Muted user %s for %s"
	MsgMonitorUnmuted      = "Unmuted user %s"
	MsgMonitorFilterDM     = "Your message in %s was removed because it matched the word filter. Repeated violations will result in a mute."
	MsgMonitorInspectDM    = "Your message containing a %s in %s was removed."
)
