package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"
)

// ============================================================================
// Word/Pattern Matcher
// ============================================================================

// FilterRule is a single filtered word with its matching behavior.
type FilterRule struct {
	Word                 string
	BypassLevel          int
	Notify               bool
	IsPiracyFlag         bool
	IsFalsePositiveProne bool
}

// FilterContext carries the author/channel facts the matcher needs.
type FilterContext struct {
	PermissionLevel int
	IsDeveloper     bool
	InDevChannel    bool
}

// --- Homoglyph Folding ---

// homoglyphFolds maps common Cyrillic and Greek look-alikes to their
// Latin equivalents. Applied after case-folding, so only lowercase keys
// are needed.
var homoglyphFolds = map[rune]rune{
	// Cyrillic
	'а': 'a', 'в': 'b', 'е': 'e', 'ё': 'e', 'з': '3', 'и': 'u', 'й': 'u',
	'к': 'k', 'м': 'm', 'н': 'h', 'о': 'o', 'р': 'p', 'с': 'c', 'т': 't',
	'у': 'y', 'х': 'x', 'ь': 'b', 'і': 'i', 'ј': 'j', 'ѕ': 's', 'ԁ': 'd',
	'ԛ': 'q', 'ԝ': 'w',
	// Greek
	'α': 'a', 'β': 'b', 'ε': 'e', 'η': 'n', 'ι': 'i', 'κ': 'k', 'ν': 'v',
	'ο': 'o', 'ρ': 'p', 'τ': 't', 'υ': 'u', 'χ': 'x', 'ω': 'w',
}

// FoldText case-folds and maps look-alike characters to Latin. Folding
// is idempotent: the output contains no foldable runes.
func FoldText(text string) string {
	lowered := strings.ToLower(text)
	var sb strings.Builder
	sb.Grow(len(lowered))
	for _, r := range lowered {
		// Fullwidth forms fold onto their ASCII counterparts
		if r >= 0xFF01 && r <= 0xFF5E {
			r -= 0xFEE0
			r = unicode.ToLower(r)
		}
		if folded, ok := homoglyphFolds[r]; ok {
			r = folded
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func stripWhitespace(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, text)
}

// --- Evaluation ---

// EvaluateFilters tests message text against the rule list in insertion
// order. The first matching rule with Notify set is returned alone and
// immediately; otherwise all matches accumulate.
func EvaluateFilters(text string, rules []*FilterRule, fctx FilterContext) []*FilterRule {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	folded := FoldText(text)
	stripped := stripWhitespace(folded)
	skeleton := stripPunctuation(folded)
	tokens := strings.Fields(folded)

	var matches []*FilterRule
	for _, rule := range rules {
		if fctx.PermissionLevel >= rule.BypassLevel {
			continue
		}
		if rule.IsPiracyFlag && fctx.IsDeveloper && fctx.InDevChannel {
			continue
		}

		word := strings.ToLower(rule.Word)
		var matched bool
		if rule.IsFalsePositiveProne {
			// Whole-token match against the raw folded form only
			for _, tok := range tokens {
				if tok == word {
					matched = true
					break
				}
			}
		} else {
			matched = strings.Contains(folded, word) ||
				strings.Contains(stripped, word) ||
				strings.Contains(skeleton, word)
		}
		if !matched {
			continue
		}

		if rule.Notify {
			return []*FilterRule{rule}
		}
		matches = append(matches, rule)
	}
	return matches
}

// --- Rule Cache ---

var (
	filterCacheMu sync.RWMutex
	filterCache   = map[snowflake.ID][]*FilterRule{}
)

// CachedFilterRules returns the guild's rules, loading from the database
// on first use.
func CachedFilterRules(ctx context.Context, guildID snowflake.ID) ([]*FilterRule, error) {
	filterCacheMu.RLock()
	rules, ok := filterCache[guildID]
	filterCacheMu.RUnlock()
	if ok {
		return rules, nil
	}

	rules, err := GetFilterRules(ctx, guildID)
	if err != nil {
		return nil, err
	}

	filterCacheMu.Lock()
	filterCache[guildID] = rules
	filterCacheMu.Unlock()
	return rules, nil
}

func invalidateFilterCache(guildID snowflake.ID) {
	filterCacheMu.Lock()
	delete(filterCache, guildID)
	filterCacheMu.Unlock()
}

// ============================================================================
// /filter Command
// ============================================================================

func init() {
	modPerm := discord.PermissionManageGuild

	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "filter",
		Description:              "Manage the word filter",
		DefaultMemberPermissions: omit.New(&modPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "add",
				Description: "Add a filtered word",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "word",
						Description: "The word or phrase to filter",
						Required:    true,
						MinLength:   intPtr(1),
						MaxLength:   intPtr(200),
					},
					discord.ApplicationCommandOptionInt{
						Name:        "bypass",
						Description: "Minimum permission level exempt from this rule (default: 5)",
						Required:    false,
					},
					discord.ApplicationCommandOptionBool{
						Name:        "notify",
						Description: "Report matches to the moderator channel immediately (default: false)",
						Required:    false,
					},
					discord.ApplicationCommandOptionBool{
						Name:        "piracy",
						Description: "Suppress this rule for developers in the development channel (default: false)",
						Required:    false,
					},
					discord.ApplicationCommandOptionBool{
						Name:        "false_positives",
						Description: "Only match the word as a whole token (default: false)",
						Required:    false,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove a filtered word",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "word",
						Description: "The word to remove",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "List filtered words",
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
			handleFilterAdd(event, data)
		case "remove":
			handleFilterRemove(event, data)
		case "list":
			handleFilterList(event)
		}
	})
}

func handleFilterAdd(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, ErrGuildOnly)
		return
	}

	word := strings.TrimSpace(data.String("word"))
	if word == "" {
		respondEphemeral(event, ErrFilterEmptyWord)
		return
	}

	bypass := 5
	if v, ok := data.OptInt("bypass"); ok {
		bypass = v
	}
	if bypass < 0 || bypass > 10 {
		respondEphemeral(event, ErrFilterBadBypass)
		return
	}

	notify, _ := data.OptBool("notify")
	piracy, _ := data.OptBool("piracy")
	falsePositives, _ := data.OptBool("false_positives")

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	rule := &FilterRule{
		Word:                 word,
		BypassLevel:          bypass,
		Notify:               notify,
		IsPiracyFlag:         piracy,
		IsFalsePositiveProne: falsePositives,
	}
	if err := AddFilterRule(ctx, *guildID, rule); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			respondEphemeral(event, fmt.Sprintf(ErrFilterDuplicate, word))
			return
		}
		LogError(MsgFilterAddFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}

	invalidateFilterCache(*guildID)
	LogFilter(MsgFilterRuleAdded, word, *guildID)
	respondEphemeral(event, fmt.Sprintf(MsgFilterAdded, word, bypass))
}

func handleFilterRemove(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, ErrGuildOnly)
		return
	}

	word := strings.TrimSpace(data.String("word"))

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	removed, err := RemoveFilterRule(ctx, *guildID, word)
	if err != nil {
		LogError(MsgFilterRemoveFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}
	if !removed {
		respondEphemeral(event, fmt.Sprintf(ErrFilterNotFound, word))
		return
	}

	invalidateFilterCache(*guildID)
	LogFilter(MsgFilterRuleRemoved, word, *guildID)
	respondEphemeral(event, fmt.Sprintf(MsgFilterRemoved, word))
}

func handleFilterList(event *events.ApplicationCommandInteractionCreate) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, ErrGuildOnly)
		return
	}

	ctx, cancel := context.WithTimeout(AppContext, 5*time.Second)
	defer cancel()

	rules, err := GetFilterRules(ctx, *guildID)
	if err != nil {
		LogError(MsgFilterListFail, err)
		respondEphemeral(event, ErrSomethingWentWrong)
		return
	}
	if len(rules) == 0 {
		respondEphemeral(event, MsgFilterListEmpty)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(MsgFilterListHeader, len(rules)))
	for _, r := range rules {
		flags := make([]string, 0, 3)
		if r.Notify {
			flags = append(flags, "notify")
		}
		if r.IsPiracyFlag {
			flags = append(flags, "piracy")
		}
		if r.IsFalsePositiveProne {
			flags = append(flags, "whole-token")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		sb.WriteString(fmt.Sprintf(MsgFilterListItem, r.Word, r.BypassLevel, suffix))
		if sb.Len() > 1800 {
			sb.WriteString(MsgFilterListTruncated)
			break
		}
	}
	respondEphemeral(event, sb.String())
}

// --- Message Constants ---

const (
	MsgFilterRuleAdded     = "Rule '%s' added for guild %s"
	MsgFilterRuleRemoved   = "Rule '%s' removed for guild %s"
	MsgFilterAddFail       = "Failed to add filter rule: %v"
	MsgFilterRemoveFail    = "Failed to remove filter rule: %v"
	MsgFilterListFail      = "Failed to list filter rules: %v"
	MsgFilterAdded         = "Filtered word added: ||%s|| (bypass level %d)"
	MsgFilterRemoved       = "Filtered word removed: ||%s||"
	MsgFilterListEmpty     = "No filtered words are configured. Add one with `/filter add`."
	MsgFilterListHeader    = "**Filtered Words** (%d)\n\n"
	MsgFilterListItem      = "> ||%s|| (bypass %d)%s\n"
	MsgFilterListTruncated = "> ...\n"
	ErrFilterEmptyWord     = "**Validation Error**\nThe filtered word must not be empty."
	ErrFilterBadBypass     = "**Validation Error**\nBypass level must be between 0 and 10."
	ErrFilterDuplicate     = "**Validation Error**\n'%s' is already filtered."
	ErrFilterNotFound      = "**Not Found**\n'%s' is not a filtered word."
)
