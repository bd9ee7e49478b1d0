package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// ============================================================================
// Link/Invite/Spoiler Inspector
// ============================================================================
//
// Three independent checks. Each deletes the offending message inline
// and reports whether a violation was found. Invite resolution fails
// closed: a lookup error counts as a violation. Deny-list refresh fails
// open: a fetch error keeps the last-known list.

var (
	inviteRegex  = regexp.MustCompile(`(?i)(?:discord\.gg|discord(?:app)?\.com/invite)/([a-zA-Z0-9-]+)`)
	spoilerRegex = regexp.MustCompile(`(?s)\|\|.+?\|\|`)
)

const newlineFloodLimit = 100

// --- Invite Check ---

// CheckInvites scans for chat-invite URLs and resolves each against the
// platform. Invites that fail to resolve or point outside the allow-list
// flag the message.
func CheckInvites(ctx context.Context, client *bot.Client, msg discord.Message, guildID snowflake.ID) bool {
	codes := inviteRegex.FindAllStringSubmatch(msg.Content, -1)
	if len(codes) == 0 {
		return false
	}

	for _, m := range codes {
		code := m[1]

		lookupCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
		invite, err := client.Rest.GetInvite(code, rest.WithCtx(lookupCtx))
		cancel()
		if err != nil {
			// Unresolvable is treated as suspicious
			LogMonitor(MsgInspectInviteLookupFail, code, err)
			deleteViolation(ctx, client, msg)
			return true
		}

		allowed := invite.Guild != nil && slices.Contains(GlobalConfig.InviteWhitelist, invite.Guild.ID.String())
		if !allowed {
			deleteViolation(ctx, client, msg)
			return true
		}
	}
	return false
}

// --- Scam Check ---

// ScamList is a remotely-sourced deny-list of URLs matched by
// case-insensitive substring.
type ScamList struct {
	name string
	url  string

	mu      sync.RWMutex
	entries []string
}

func NewScamList(name, url string) *ScamList {
	return &ScamList{name: name, url: url}
}

// Refresh fetches the list. On any failure the previous entries are kept.
func (s *ScamList) Refresh(ctx context.Context) error {
	if s.url == "" {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	resp, err := HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(MsgInspectListStatusError, resp.StatusCode)
	}

	var entries []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	LogScamList(MsgInspectListRefreshed, s.name, len(entries))
	return nil
}

// Match returns the first deny-list entry contained in the text.
func (s *ScamList) Match(text string) (string, bool) {
	lowered := strings.ToLower(text)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if strings.Contains(lowered, e) {
			return e, true
		}
	}
	return "", false
}

var (
	jailbreakScamList *ScamList
	unlockScamList    *ScamList
)

func init() {
	OnClientReady(func(ctx context.Context, client *bot.Client) {
		jailbreakScamList = NewScamList("jailbreak", GlobalConfig.ScamJailbreakListURL)
		unlockScamList = NewScamList("unlock", GlobalConfig.ScamUnlockListURL)

		RegisterDaemon(LogScamList, func(ctx context.Context) (bool, func(), func()) {
			if GlobalConfig.ScamJailbreakListURL == "" && GlobalConfig.ScamUnlockListURL == "" {
				return false, nil, nil
			}

			run := func() {
				refresh := func() {
					for _, list := range []*ScamList{jailbreakScamList, unlockScamList} {
						if err := list.Refresh(ctx); err != nil {
							LogWarn(MsgInspectListRefreshFail, list.name, err)
						}
					}
				}
				refresh()

				ticker := time.NewTicker(GlobalConfig.ScamRefreshInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						refresh()
					}
				}
			}
			return true, run, nil
		})
	})
}

// CheckScamLinks flags messages containing a deny-listed URL.
func CheckScamLinks(ctx context.Context, client *bot.Client, msg discord.Message) bool {
	if jailbreakScamList == nil || unlockScamList == nil {
		return false
	}
	for _, list := range []*ScamList{jailbreakScamList, unlockScamList} {
		if entry, ok := list.Match(msg.Content); ok {
			LogMonitor(MsgInspectScamMatched, entry, msg.Author.ID)
			deleteViolation(ctx, client, msg)
			return true
		}
	}
	return false
}

// --- Spoiler/Newline Check ---

// CheckSpoilersAndNewlines flags spoiler markup, spoiler attachments and
// newline floods. Newline floods are tolerated for the exempt role in
// the exempt channel.
func CheckSpoilersAndNewlines(ctx context.Context, client *bot.Client, msg discord.Message, roleIDs []snowflake.ID) bool {
	if spoilerRegex.MatchString(msg.Content) {
		deleteViolation(ctx, client, msg)
		return true
	}
	for _, att := range msg.Attachments {
		if strings.HasPrefix(att.Filename, "SPOILER_") {
			deleteViolation(ctx, client, msg)
			return true
		}
	}

	if strings.Count(msg.Content, "\n") >= newlineFloodLimit {
		if isNewlineExempt(msg.ChannelID, roleIDs) {
			return false
		}
		deleteViolation(ctx, client, msg)
		return true
	}
	return false
}

func isNewlineExempt(channelID snowflake.ID, roleIDs []snowflake.ID) bool {
	if GlobalConfig.NewlineExemptRoleID == "" || GlobalConfig.NewlineExemptChannelID == "" {
		return false
	}
	if channelID.String() != GlobalConfig.NewlineExemptChannelID {
		return false
	}
	for _, id := range roleIDs {
		if id.String() == GlobalConfig.NewlineExemptRoleID {
			return true
		}
	}
	return false
}

// --- Shared ---

func deleteViolation(ctx context.Context, client *bot.Client, msg discord.Message) {
	delCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := client.Rest.DeleteMessage(msg.ChannelID, msg.ID, rest.WithCtx(delCtx)); err != nil {
		LogMonitor(MsgInspectDeleteFail, msg.ID, err)
	}
}

// --- Message Constants ---

const (
	MsgInspectInviteLookupFail = "Invite '%s' could not be resolved (flagging): %v"
	MsgInspectListStatusError  = "deny-list fetch returned status %d"
	MsgInspectListRefreshed    = "Refreshed %s deny-list (%d entries)"
	MsgInspectListRefreshFail  = "Failed to refresh %s deny-list, keeping last-known list: %v"
	MsgInspectScamMatched      = "Scam URL '%s' matched in message from %s"
	MsgInspectDeleteFail       = "Failed to delete message %s: %v"
)
