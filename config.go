package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// --- Configuration & Environment ---

type Config struct {
	Token        string
	GuildID      string
	DatabasePath string
	OwnerIDs     []string
	Silent       bool

	// Moderation surface
	ModChannelID       string
	PublicLogChannelID string
	MutedRoleID        string

	// Piracy-flag suppression scope
	DeveloperRoleID      string
	DevelopmentChannelID string

	// Invite allow-list: guild ids whose invites are permitted
	InviteWhitelist []string

	// Newline-flood exemption scope
	NewlineExemptRoleID    string
	NewlineExemptChannelID string

	// Remote scam deny-lists
	ScamJailbreakListURL string
	ScamUnlockListURL    string
	ScamRefreshInterval  time.Duration

	// Profile transfer merge policy: sum, max or reject
	TransferMergePolicy string
}

var GlobalConfig *Config

// LoadConfig initializes the configuration from environment variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		folder := "."
		if info, err := os.Stat("data"); err == nil && info.IsDir() {
			folder = "./data"
		}
		dbPath = filepath.Join(folder, GetProjectName()+".db")
	}

	silent, _ := strconv.ParseBool(os.Getenv("SILENT"))

	refresh := 30 * time.Minute
	if raw := os.Getenv("SCAM_REFRESH_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			refresh = d
		}
	}

	mergePolicy := strings.ToLower(os.Getenv("TRANSFER_MERGE_POLICY"))
	if mergePolicy == "" {
		mergePolicy = MergePolicySum
	}

	cfg := &Config{
		Token:                  token,
		GuildID:                os.Getenv("GUILD_ID"),
		DatabasePath:           dbPath,
		OwnerIDs:               splitIDList(os.Getenv("OWNER_IDS")),
		Silent:                 silent,
		ModChannelID:           os.Getenv("MOD_CHANNEL_ID"),
		PublicLogChannelID:     os.Getenv("PUBLIC_LOG_CHANNEL_ID"),
		MutedRoleID:            os.Getenv("MUTED_ROLE_ID"),
		DeveloperRoleID:        os.Getenv("DEVELOPER_ROLE_ID"),
		DevelopmentChannelID:   os.Getenv("DEVELOPMENT_CHANNEL_ID"),
		InviteWhitelist:        splitIDList(os.Getenv("INVITE_WHITELIST")),
		NewlineExemptRoleID:    os.Getenv("NEWLINE_EXEMPT_ROLE_ID"),
		NewlineExemptChannelID: os.Getenv("NEWLINE_EXEMPT_CHANNEL_ID"),
		ScamJailbreakListURL:   os.Getenv("SCAM_JAILBREAK_LIST_URL"),
		ScamUnlockListURL:      os.Getenv("SCAM_UNLOCK_LIST_URL"),
		ScamRefreshInterval:    refresh,
		TransferMergePolicy:    mergePolicy,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	GlobalConfig = cfg
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}
	if c.GuildID != "" && (len(c.GuildID) < 17 || len(c.GuildID) > 20) {
		return fmt.Errorf("invalid GUILD_ID: must be a valid Snowflake")
	}
	switch c.TransferMergePolicy {
	case MergePolicySum, MergePolicyMax, MergePolicyReject:
	default:
		return fmt.Errorf("invalid TRANSFER_MERGE_POLICY: must be one of sum, max, reject")
	}
	return nil
}

func splitIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "warden"
	if err == nil {
		projectName = filepath.Base(exePath)
		projectName = strings.TrimSuffix(projectName, ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") {
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
