package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sho0pi/naturaltime"
)

// ============================================================================
// Moderator Commands
// ============================================================================
//
// Every handler runs an ordered middleware chain before touching the
// ledger. The first failing predicate responds to the moderator and
// stops the chain; nothing is mutated on a rejected request.

// --- Middleware ---

type commandRequest struct {
	event   *events.ApplicationCommandInteractionCreate
	guildID snowflake.ID
}

// middleware predicates return a user-visible rejection or ok.
type middleware func(req *commandRequest) (string, bool)

func runMiddleware(event *events.ApplicationCommandInteractionCreate, chain ...middleware) (*commandRequest, bool) {
	req := &commandRequest{event: event}
	if gid := event.GuildID(); gid != nil {
		req.guildID = *gid
	}
	for _, mw := range chain {
		if msg, ok := mw(req); !ok {
			respondEphemeral(event, msg)
			return nil, false
		}
	}
	return req, true
}

func requireGuild(req *commandRequest) (string, bool) {
	if req.guildID == 0 {
		return ErrGuildOnly, false
	}
	return "", true
}

func requirePermission(perm discord.Permissions) middleware {
	return func(req *commandRequest) (string, bool) {
		member := req.event.Member()
		if member == nil || !member.Permissions.Has(perm) {
			return ErrModNoPermission, false
		}
		return "", true
	}
}

func requireTargetNotSelf(userID snowflake.ID) middleware {
	return func(req *commandRequest) (string, bool) {
		if req.event.User().ID == userID {
			return ErrModSelfTarget, false
		}
		return "", true
	}
}

// --- Duration Parsing ---

var durationParser *naturaltime.Parser

func init() {
	var err error
	durationParser, err = naturaltime.New()
	if err != nil {
		LogFatal(MsgModParserInitFail, err)
	}
}

// parseMuteDuration accepts both plain Go durations ("90m") and natural
// phrases ("2 hours").
func parseMuteDuration(input string) (time.Duration, error) {
	if d, err := time.ParseDuration(input); err == nil && d > 0 {
		return d, nil
	}

	now := time.Now().UTC()
	if result, err := durationParser.ParseDate(input, now); err == nil && result != nil && result.After(now) {
		return result.Sub(now), nil
	}

	return 0, fmt.Errorf("could not parse duration: %s", input)
}

// --- Command Registration ---

func init() {
	modPerm := discord.PermissionManageMessages
	kickPerm := discord.PermissionKickMembers
	banPerm := discord.PermissionBanMembers

	userOpt := func(desc string) discord.ApplicationCommandOptionUser {
		return discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: desc,
			Required:    true,
		}
	}
	reasonOpt := discord.ApplicationCommandOptionString{
		Name:        "reason",
		Description: "Reason recorded on the case",
		Required:    true,
		MinLength:   intPtr(1),
		MaxLength:   intPtr(500),
	}

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "warn",
		Description:              "Warn a user and add warn points",
		DefaultMemberPermissions: omit.New(&modPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			userOpt("The user to warn"),
			discord.ApplicationCommandOptionInt{
				Name:        "points",
				Description: "Warn points to add",
				Required:    true,
				MinValue:    intPtr(1),
				MaxValue:    intPtr(600),
			},
			reasonOpt,
		},
	}, handleWarn)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "liftwarn",
		Description:              "Mark a warn case as lifted",
		DefaultMemberPermissions: omit.New(&modPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionInt{
				Name:        "case_id",
				Description: "The warn case to lift",
				Required:    true,
				MinValue:    intPtr(1),
			},
			reasonOpt,
		},
	}, handleLiftWarn)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "removepoints",
		Description:              "Remove warn points from a user",
		DefaultMemberPermissions: omit.New(&modPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			userOpt("The user to remove points from"),
			discord.ApplicationCommandOptionInt{
				Name:        "points",
				Description: "Warn points to remove",
				Required:    true,
				MinValue:    intPtr(1),
			},
			reasonOpt,
		},
	}, handleRemovePoints)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "kick",
		Description:              "Kick a user",
		DefaultMemberPermissions: omit.New(&kickPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			userOpt("The user to kick"),
			reasonOpt,
		},
	}, handleKick)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "ban",
		Description:              "Permanently ban a user",
		DefaultMemberPermissions: omit.New(&banPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			userOpt("The user to ban"),
			reasonOpt,
		},
	}, handleBan)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "mute",
		Description:              "Temporarily mute a user",
		DefaultMemberPermissions: omit.New(&modPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			userOpt("The user to mute"),
			discord.ApplicationCommandOptionString{
				Name:        "duration",
				Description: "How long, e.g. '15m' or '2 hours'",
				Required:    true,
			},
			reasonOpt,
		},
	}, handleMute)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "unmute",
		Description:              "Unmute a user",
		DefaultMemberPermissions: omit.New(&modPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			userOpt("The user to unmute"),
			reasonOpt,
		},
	}, handleUnmute)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "transfer",
		Description:              "Transfer a moderation profile to a new account",
		DefaultMemberPermissions: omit.New(&banPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "old_user",
				Description: "The account to transfer from",
				Required:    true,
			},
			discord.ApplicationCommandOptionUser{
				Name:        "new_user",
				Description: "The account to transfer to",
				Required:    true,
			},
		},
	}, handleTransfer)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "case",
		Description:              "Look up moderation cases",
		DefaultMemberPermissions: omit.New(&modPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "view",
				Description: "View a single case",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "case_id",
						Description: "The case id",
						Required:    true,
						MinValue:    intPtr(1),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "List a user's cases",
				Options: []discord.ApplicationCommandOption{
					userOpt("The user whose cases to list"),
				},
			},
		},
	}, handleCase)

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "clem",
		Description:              "Zero and freeze a user's punitive state",
		DefaultMemberPermissions: omit.New(&banPerm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			userOpt("The user to clem"),
			reasonOpt,
		},
	}, handleClem)
}

// --- Handlers ---

func handleWarn(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")
	points := data.Int("points")
	reason := data.String("reason")

	req, ok := runMiddleware(event,
		requireGuild,
		requirePermission(discord.PermissionManageMessages),
		requireTargetNotSelf(target.ID),
	)
	if !ok {
		return
	}
	if target.Bot {
		respondEphemeral(event, ErrModBotTarget)
		return
	}

	// The action must run to completion once begun, so everything below
	// uses the application context rather than the interaction's.
	ctx := AppContext
	client := event.Client()
	moderator := event.User()

	c, err := CreateCase(ctx, &ModerationCase{
		GuildID:    req.guildID,
		Type:       CaseWarn,
		UserID:     target.ID,
		ModID:      moderator.ID,
		Reason:     reason,
		Punishment: fmt.Sprintf("%d points", points),
	})
	if err != nil {
		LogError(MsgModCaseFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	total, err := AdjustWarnPoints(ctx, req.guildID, target.ID, points)
	if err != nil {
		LogError(MsgModPointsFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	delivered := Notify(ctx, client, target.ID,
		fmt.Sprintf(MsgModWarnDM, guildName(client, req.guildID), points, reason, total))
	PostPublicLog(ctx, client, target.ID,
		fmt.Sprintf(MsgModWarnLog, points, reason), !delivered)

	respondEphemeral(event, fmt.Sprintf(MsgModWarned, target.ID, c.ID, points, total))

	// Escalation observes the total returned by the point write.
	RunEscalation(ctx, client, req.guildID, target.ID, total)
}

func handleLiftWarn(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	caseID := int64(data.Int("case_id"))
	reason := data.String("reason")

	req, ok := runMiddleware(event, requireGuild, requirePermission(discord.PermissionManageMessages))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	err := LiftWarn(ctx, req.guildID, caseID, event.User().ID, reason)
	switch {
	case errors.Is(err, ErrCaseNotFound):
		respondEphemeral(event, fmt.Sprintf(ErrModCaseNotFound, caseID))
	case errors.Is(err, ErrCaseNotWarn):
		respondEphemeral(event, fmt.Sprintf(ErrModCaseNotWarn, caseID))
	case errors.Is(err, ErrCaseAlreadyLifted):
		respondEphemeral(event, fmt.Sprintf(ErrModCaseLifted, caseID))
	case err != nil:
		LogError(MsgModLiftFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
	default:
		respondEphemeral(event, fmt.Sprintf(MsgModWarnLifted, caseID))
	}
}

func handleRemovePoints(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")
	points := data.Int("points")
	reason := data.String("reason")

	req, ok := runMiddleware(event, requireGuild, requirePermission(discord.PermissionManageMessages))
	if !ok {
		return
	}

	ctx := AppContext
	c, err := CreateCase(ctx, &ModerationCase{
		GuildID:    req.guildID,
		Type:       CaseRemovePoints,
		UserID:     target.ID,
		ModID:      event.User().ID,
		Reason:     reason,
		Punishment: fmt.Sprintf("-%d points", points),
	})
	if err != nil {
		LogError(MsgModCaseFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	total, err := AdjustWarnPoints(ctx, req.guildID, target.ID, -points)
	if err != nil {
		LogError(MsgModPointsFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	respondEphemeral(event, fmt.Sprintf(MsgModPointsRemoved, points, target.ID, c.ID, total))
}

func handleKick(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")
	reason := data.String("reason")

	req, ok := runMiddleware(event,
		requireGuild,
		requirePermission(discord.PermissionKickMembers),
		requireTargetNotSelf(target.ID),
	)
	if !ok {
		return
	}

	ctx := AppContext
	client := event.Client()

	c, err := CreateCase(ctx, &ModerationCase{
		GuildID: req.guildID,
		Type:    CaseKick,
		UserID:  target.ID,
		ModID:   event.User().ID,
		Reason:  reason,
	})
	if err != nil {
		LogError(MsgModCaseFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	delivered := Notify(ctx, client, target.ID,
		fmt.Sprintf(MsgModKickDM, guildName(client, req.guildID), reason))

	kickCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := client.Rest.RemoveMember(req.guildID, target.ID, rest.WithCtx(kickCtx)); err != nil {
		LogError(MsgModKickFail, target.ID, err)
		respondEphemeral(event, ErrModActionFailed)
		return
	}

	PostPublicLog(ctx, client, target.ID, fmt.Sprintf(MsgModKickLog, reason), !delivered)
	respondEphemeral(event, fmt.Sprintf(MsgModKicked, target.ID, c.ID))
}

func handleBan(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")
	reason := data.String("reason")

	req, ok := runMiddleware(event,
		requireGuild,
		requirePermission(discord.PermissionBanMembers),
		requireTargetNotSelf(target.ID),
	)
	if !ok {
		return
	}

	ctx := AppContext
	client := event.Client()

	c, err := CreateCase(ctx, &ModerationCase{
		GuildID:    req.guildID,
		Type:       CaseBan,
		UserID:     target.ID,
		ModID:      event.User().ID,
		Reason:     reason,
		Punishment: "PERMANENT",
	})
	if err != nil {
		LogError(MsgModCaseFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	delivered := Notify(ctx, client, target.ID,
		fmt.Sprintf(MsgModBanDM, guildName(client, req.guildID), reason))

	banCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := client.Rest.AddBan(req.guildID, target.ID, 0, rest.WithCtx(banCtx)); err != nil {
		LogError(MsgModBanFail, target.ID, err)
		respondEphemeral(event, ErrModActionFailed)
		return
	}

	PostPublicLog(ctx, client, target.ID, fmt.Sprintf(MsgModBanLog, reason), !delivered)
	respondEphemeral(event, fmt.Sprintf(MsgModBanned, target.ID, c.ID))
}

func handleMute(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")
	durationStr := data.String("duration")
	reason := data.String("reason")

	req, ok := runMiddleware(event,
		requireGuild,
		requirePermission(discord.PermissionManageMessages),
		requireTargetNotSelf(target.ID),
	)
	if !ok {
		return
	}

	duration, err := parseMuteDuration(durationStr)
	if err != nil {
		respondEphemeral(event, fmt.Sprintf(ErrModBadDuration, durationStr))
		return
	}

	ctx := AppContext
	client := event.Client()

	if err := MuteMember(ctx, client, req.guildID, target.ID, event.User().ID, duration, reason); err != nil {
		LogError(MsgModMuteFail, target.ID, err)
		respondEphemeral(event, ErrModActionFailed)
		return
	}

	delivered := Notify(ctx, client, target.ID,
		fmt.Sprintf(MsgModMuteDM, guildName(client, req.guildID), duration, reason))
	PostPublicLog(ctx, client, target.ID, fmt.Sprintf(MsgModMuteLog, duration, reason), !delivered)

	respondEphemeral(event, fmt.Sprintf(MsgModMuted, target.ID, duration))
}

func handleUnmute(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")
	reason := data.String("reason")

	req, ok := runMiddleware(event, requireGuild, requirePermission(discord.PermissionManageMessages))
	if !ok {
		return
	}

	ctx := AppContext
	if err := UnmuteMember(ctx, event.Client(), req.guildID, target.ID, event.User().ID, reason); err != nil {
		LogError(MsgModUnmuteFail, target.ID, err)
		respondEphemeral(event, ErrModActionFailed)
		return
	}

	respondEphemeral(event, fmt.Sprintf(MsgModUnmuted, target.ID))
}

func handleTransfer(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	oldUser := data.User("old_user")
	newUser := data.User("new_user")

	req, ok := runMiddleware(event, requireGuild, requirePermission(discord.PermissionBanMembers))
	if !ok {
		return
	}
	if oldUser.ID == newUser.ID {
		respondEphemeral(event, ErrModTransferSame)
		return
	}

	ctx, cancel := context.WithTimeout(AppContext, 10*time.Second)
	defer cancel()

	merged, moved, err := TransferProfile(ctx, req.guildID, oldUser.ID, newUser.ID, GlobalConfig.TransferMergePolicy)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		respondEphemeral(event, fmt.Sprintf(ErrModNoProfile, oldUser.ID))
	case errors.Is(err, ErrDestProfileNotEmpty):
		respondEphemeral(event, fmt.Sprintf(ErrModTransferDest, newUser.ID))
	case err != nil:
		LogError(MsgModTransferFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
	default:
		respondEphemeral(event, fmt.Sprintf(MsgModTransferred, oldUser.ID, newUser.ID, moved, merged.WarnPoints))
	}
}

func handleCase(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	subCmd := data.SubCommandName
	if subCmd == nil {
		return
	}

	req, ok := runMiddleware(event, requireGuild, requirePermission(discord.PermissionManageMessages))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	switch *subCmd {
	case "view":
		caseID := int64(data.Int("case_id"))
		c, err := GetCase(ctx, req.guildID, caseID)
		if errors.Is(err, ErrCaseNotFound) {
			respondEphemeral(event, fmt.Sprintf(ErrModCaseNotFound, caseID))
			return
		}
		if err != nil {
			LogError(MsgModCaseLookupFail, err)
			respondEphemeral(event, ErrSomethingWentWrong)
			return
		}
		respondEphemeral(event, formatCase(c))
	case "list":
		target := data.User("user")
		cases, err := GetCasesForUser(ctx, req.guildID, target.ID)
		if err != nil {
			LogError(MsgModCaseLookupFail, err)
			respondEphemeral(event, ErrSomethingWentWrong)
			return
		}
		if len(cases) == 0 {
			respondEphemeral(event, fmt.Sprintf(MsgModNoCases, target.ID))
			return
		}

		profile, err := GetProfile(ctx, req.guildID, target.ID)
		if err != nil {
			LogError(MsgModCaseLookupFail, err)
			respondEphemeral(event, ErrSomethingWentWrong)
			return
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf(MsgModCasesHeader, target.ID, len(cases), profile.WarnPoints))
		for _, c := range cases {
			lifted := ""
			if c.Lifted {
				lifted = " (lifted)"
			}
			sb.WriteString(fmt.Sprintf(MsgModCasesItem, c.ID, c.Type, c.Reason, lifted))
			if sb.Len() > 1800 {
				sb.WriteString("> ...\n")
				break
			}
		}
		respondEphemeral(event, sb.String())
	}
}

func handleClem(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")
	reason := data.String("reason")

	req, ok := runMiddleware(event,
		requireGuild,
		requirePermission(discord.PermissionBanMembers),
		requireTargetNotSelf(target.ID),
	)
	if !ok {
		return
	}

	ctx := AppContext
	if err := SetClemmed(ctx, req.guildID, target.ID); err != nil {
		LogError(MsgModClemFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	c, err := CreateCase(ctx, &ModerationCase{
		GuildID: req.guildID,
		Type:    CaseClem,
		UserID:  target.ID,
		ModID:   event.User().ID,
		Reason:  reason,
	})
	if err != nil {
		LogError(MsgModCaseFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	respondEphemeral(event, fmt.Sprintf(MsgModClemmed, target.ID, c.ID))
}

func formatCase(c *ModerationCase) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(MsgModCaseHeader, c.ID, c.Type))
	sb.WriteString(fmt.Sprintf(MsgModCaseUser, c.UserID, c.ModID))
	sb.WriteString(fmt.Sprintf(MsgModCaseReason, c.Reason))
	if c.Punishment != "" {
		sb.WriteString(fmt.Sprintf(MsgModCasePunishment, c.Punishment))
	}
	sb.WriteString(fmt.Sprintf(MsgModCaseCreated, c.CreatedAt.Unix()))
	if c.Until != nil {
		sb.WriteString(fmt.Sprintf(MsgModCaseUntil, c.Until.Unix()))
	}
	if c.Lifted {
		sb.WriteString(fmt.Sprintf(MsgModCaseLiftInfo, c.LiftedBy, c.LiftReason))
	}
	return sb.String()
}

// --- Message Constants ---

const (
	MsgModParserInitFail = "Failed to initialize duration parser: %v"
	MsgModCaseFail       = "Failed to create case: %v"
	MsgModPointsFail     = "Failed to adjust warn points: %v"
	MsgModLiftFail       = "Failed to lift warn: %v"
	MsgModKickFail       = "Failed to kick user %s: %v"
	MsgModBanFail        = "Failed to ban user %s: %v"
	MsgModMuteFail       = "Failed to mute user %s: %v"
	MsgModUnmuteFail     = "Failed to unmute user %s: %v"
	MsgModTransferFail   = "Failed to transfer profile: %v"
	MsgModCaseLookupFail = "Failed to look up cases: %v"
	MsgModClemFail       = "Failed to clem user: %v"

	MsgModWarned        = "Warned <@%s> (case #%d, +%d points, total %d)."
	MsgModWarnLifted    = "Case #%d marked as lifted."
	MsgModPointsRemoved = "Removed %d points from <@%s> (case #%d, total %d)."
	MsgModKicked        = "Kicked <@%s> (case #%d)."
	MsgModBanned        = "Banned <@%s> (case #%d)."
	MsgModMuted         = "Muted <@%s> for %s."
	MsgModUnmuted       = "Unmuted <@%s>."
	MsgModTransferred   = "Transferred profile <@%s> -> <@%s> (%d cases moved, %d points)."
	MsgModClemmed       = "Clemmed <@%s> (case #%d)."
	MsgModNoCases       = "<@%s> has no cases."

	MsgModWarnDM  = "You have been **warned** in %s (+%d points).\n> Reason: %s\n> Total points: %d"
	MsgModKickDM  = "You have been **kicked** from %s.\n> Reason: %s"
	MsgModBanDM   = "You have been **banned** from %s.\n> Reason: %s"
	MsgModMuteDM  = "You have been **muted** in %s for %s.\n> Reason: %s"
	MsgModWarnLog = "was warned (+%d points). Reason: %s"
	MsgModKickLog = "was kicked. Reason: %s"
	MsgModBanLog  = "was banned. Reason: %s"
	MsgModMuteLog = "was muted for %s. Reason: %s"

	MsgModCaseHeader     = "**Case #%d** (%s)\n"
	MsgModCaseUser       = "> User: <@%s> | Moderator: <@%s>\n"
	MsgModCaseReason     = "> Reason: %s\n"
	MsgModCasePunishment = "> Punishment: %s\n"
	MsgModCaseCreated    = "> Created: <t:%d:f>\n"
	MsgModCaseUntil      = "> Until: <t:%d:f>\n"
	MsgModCaseLiftInfo   = "> Lifted by <@%s>: %s\n"
	MsgModCasesHeader    = "**Cases for <@%s>** (%d cases, %d points)\n\n"
	MsgModCasesItem      = "> #%d %s — %s%s\n"

	ErrModNoPermission = "You do not have permission to use this command."
	ErrModSelfTarget   = "You cannot target yourself."
	ErrModBotTarget    = "**Validation Error**\nBots cannot be warned."
	ErrModActionFailed = "**Action Failed**\nThe case was recorded, but the platform action failed. See logs."
	ErrModBadDuration  = "**Validation Error**\nCould not parse duration '%s'. Try '15m' or '2 hours'."
	ErrModCaseNotFound = "**Not Found**\nCase #%d does not exist."
	ErrModCaseNotWarn  = "**Validation Error**\nCase #%d is not a warn case."
	ErrModCaseLifted   = "**Validation Error**\nCase #%d is already lifted."
	ErrModTransferSame = "**Validation Error**\nSource and destination are the same account."
	ErrModNoProfile    = "**Not Found**\n<@%s> has no moderation profile."
	ErrModTransferDest = "**Rejected**\n<@%s> already has a non-empty profile and the merge policy is 'reject'."
)
