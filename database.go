package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mattn/go-sqlite3"
)

// --- Phase 1: Database Connection & Lifecycle ---

var DB *sql.DB

func InitDatabase(ctx context.Context, dataSourceName string) error {
	// Explicitly reference sqlite3 driver to avoid blank identifier
	// The driver registers itself via its init() function
	_ = sqlite3.SQLiteDriver{}

	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA cache_size=-2000;",
		"PRAGMA foreign_keys=ON;",
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, p := range pragmas {
		if _, err := DB.ExecContext(initCtx, p); err != nil {
			return fmt.Errorf(MsgDatabasePragmaError, p, err)
		}
	}

	tx, err := DB.BeginTx(initCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableQueries := []string{
		`CREATE TABLE IF NOT EXISTS bot_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS filter_rules (
			guild_id TEXT NOT NULL,
			word TEXT NOT NULL,
			bypass_level INTEGER NOT NULL DEFAULT 0,
			notify INTEGER NOT NULL DEFAULT 0,
			is_piracy INTEGER NOT NULL DEFAULT 0,
			false_positive INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, word)
		)`,
		`CREATE TABLE IF NOT EXISTS raid_phrases (
			guild_id TEXT NOT NULL,
			phrase TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, phrase)
		)`,
		`CREATE TABLE IF NOT EXISTS guild_counters (
			guild_id TEXT PRIMARY KEY,
			case_seq INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS mod_cases (
			guild_id TEXT NOT NULL,
			case_id INTEGER NOT NULL,
			case_type TEXT NOT NULL,
			user_id TEXT NOT NULL,
			mod_id TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			punishment TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			until DATETIME,
			lifted INTEGER NOT NULL DEFAULT 0,
			lift_reason TEXT,
			lifted_by TEXT,
			lifted_at DATETIME,
			PRIMARY KEY (guild_id, case_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			warn_points INTEGER NOT NULL DEFAULT 0,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 0,
			is_muted INTEGER NOT NULL DEFAULT 0,
			was_warn_kicked INTEGER NOT NULL DEFAULT 0,
			is_clemmed INTEGER NOT NULL DEFAULT 0,
			is_xp_frozen INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (guild_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mod_cases_user ON mod_cases (guild_id, user_id)`,
	}

	for _, q := range tableQueries {
		if _, err := tx.ExecContext(initCtx, q); err != nil {
			return fmt.Errorf(MsgDatabaseTableError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	migrations := []string{
		"ALTER TABLE filter_rules ADD COLUMN position INTEGER NOT NULL DEFAULT 0",
	}

	for _, m := range migrations {
		if _, err := DB.ExecContext(initCtx, m); err != nil {
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
		}
	}

	LogDatabase(MsgDatabaseInitSuccess)
	return nil
}

func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}

// --- Phase 2: Infrastructure & Bot Persistence ---

// BotConfig helpers are used by the loader for mode tracking and state.
func GetBotConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := DB.QueryRowContext(ctx, "SELECT value FROM bot_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func SetBotConfig(ctx context.Context, key, value string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO bot_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// --- Phase 3: Filter Rule Storage ---

// AddFilterRule inserts a rule. The word is stored lowercased so the
// per-guild uniqueness constraint is case-insensitive.
func AddFilterRule(ctx context.Context, guildID snowflake.ID, rule *FilterRule) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO filter_rules (guild_id, word, bypass_level, notify, is_piracy, false_positive, position)
		VALUES (?, ?, ?, ?, ?, ?, COALESCE((SELECT MAX(position) + 1 FROM filter_rules WHERE guild_id = ?), 0))
	`, guildID.String(), strings.ToLower(rule.Word), rule.BypassLevel,
		boolToInt(rule.Notify), boolToInt(rule.IsPiracyFlag), boolToInt(rule.IsFalsePositiveProne),
		guildID.String())
	return err
}

func RemoveFilterRule(ctx context.Context, guildID snowflake.ID, word string) (bool, error) {
	result, err := DB.ExecContext(ctx,
		"DELETE FROM filter_rules WHERE guild_id = ? AND word = ?",
		guildID.String(), strings.ToLower(word))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// GetFilterRules returns the guild's rules in insertion order.
func GetFilterRules(ctx context.Context, guildID snowflake.ID) ([]*FilterRule, error) {
	rows, err := DB.QueryContext(ctx, `
		SELECT word, bypass_level, notify, is_piracy, false_positive
		FROM filter_rules WHERE guild_id = ? ORDER BY position ASC, created_at ASC
	`, guildID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*FilterRule
	for rows.Next() {
		r := &FilterRule{}
		var notify, piracy, falsePositive int
		if err := rows.Scan(&r.Word, &r.BypassLevel, &notify, &piracy, &falsePositive); err != nil {
			return nil, fmt.Errorf("failed to scan filter rule: %w", err)
		}
		r.Notify = notify == 1
		r.IsPiracyFlag = piracy == 1
		r.IsFalsePositiveProne = falsePositive == 1
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// --- Phase 4: Raid Phrase Storage ---

func AddRaidPhrase(ctx context.Context, guildID snowflake.ID, phrase string) error {
	_, err := DB.ExecContext(ctx,
		"INSERT INTO raid_phrases (guild_id, phrase) VALUES (?, ?)",
		guildID.String(), strings.ToLower(phrase))
	return err
}

func RemoveRaidPhrase(ctx context.Context, guildID snowflake.ID, phrase string) (bool, error) {
	result, err := DB.ExecContext(ctx,
		"DELETE FROM raid_phrases WHERE guild_id = ? AND phrase = ?",
		guildID.String(), strings.ToLower(phrase))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func GetRaidPhrases(ctx context.Context, guildID snowflake.ID) ([]string, error) {
	rows, err := DB.QueryContext(ctx,
		"SELECT phrase FROM raid_phrases WHERE guild_id = ? ORDER BY created_at ASC",
		guildID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan raid phrase: %w", err)
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
