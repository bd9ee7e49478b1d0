package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ============================================================================
// Moderation Ledger
// ============================================================================
//
// Append-only case records keyed by user plus a running warn-point total.
// Case ids come from a guild-scoped counter incremented in a single SQL
// statement, so two concurrent warns can never share an id. Point updates
// are relative (points = points + delta) at the storage layer, so racing
// warns against the same user serialize into some total order with no
// lost update.

type CaseType string

const (
	CaseWarn         CaseType = "WARN"
	CaseKick         CaseType = "KICK"
	CaseBan          CaseType = "BAN"
	CaseMute         CaseType = "MUTE"
	CaseUnmute       CaseType = "UNMUTE"
	CaseLiftWarn     CaseType = "LIFTWARN"
	CaseRemovePoints CaseType = "REMOVEPOINTS"
	CaseClem         CaseType = "CLEM"
)

const (
	MergePolicySum    = "sum"
	MergePolicyMax    = "max"
	MergePolicyReject = "reject"
)

var (
	ErrCaseNotFound        = errors.New("case not found")
	ErrCaseNotWarn         = errors.New("case is not a warn case")
	ErrCaseAlreadyLifted   = errors.New("case is already lifted")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDestProfileNotEmpty = errors.New("destination profile is not empty")
)

type ModerationCase struct {
	GuildID    snowflake.ID
	ID         int64
	Type       CaseType
	UserID     snowflake.ID
	ModID      snowflake.ID
	Reason     string
	Punishment string
	CreatedAt  time.Time
	Until      *time.Time

	Lifted     bool
	LiftReason string
	LiftedBy   snowflake.ID
	LiftedAt   *time.Time
}

type UserProfile struct {
	GuildID       snowflake.ID
	UserID        snowflake.ID
	WarnPoints    int
	XP            int
	Level         int
	IsMuted       bool
	WasWarnKicked bool
	IsClemmed     bool
	IsXPFrozen    bool
}

// --- Case Creation ---

// nextCaseID increments and returns the guild's case counter in a single
// statement. Ids are never reused; an id burned by a failed insert stays
// burned.
func nextCaseID(ctx context.Context, tx *sql.Tx, guildID snowflake.ID) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO guild_counters (guild_id, case_seq) VALUES (?, 1)
		ON CONFLICT(guild_id) DO UPDATE SET case_seq = case_seq + 1
		RETURNING case_seq
	`, guildID.String()).Scan(&id)
	return id, err
}

// CreateCase assigns the next case id and appends the record.
func CreateCase(ctx context.Context, c *ModerationCase) (*ModerationCase, error) {
	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c.ID, err = nextCaseID(ctx, tx, c.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate case id: %w", err)
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var until any
	if c.Until != nil {
		until = c.Until.UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mod_cases (guild_id, case_id, case_type, user_id, mod_id, reason, punishment, created_at, until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.GuildID.String(), c.ID, string(c.Type), c.UserID.String(), c.ModID.String(),
		c.Reason, c.Punishment, c.CreatedAt, until)
	if err != nil {
		return nil, fmt.Errorf("failed to insert case: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	LogLedger(MsgLedgerCaseCreated, c.ID, c.Type, c.UserID)
	return c, nil
}

// --- Case Lookup ---

func GetCase(ctx context.Context, guildID snowflake.ID, caseID int64) (*ModerationCase, error) {
	row := DB.QueryRowContext(ctx, `
		SELECT case_id, case_type, user_id, mod_id, reason, punishment, created_at, until,
			lifted, lift_reason, lifted_by, lifted_at
		FROM mod_cases WHERE guild_id = ? AND case_id = ?
	`, guildID.String(), caseID)

	c, err := scanCase(row, guildID)
	if err == sql.ErrNoRows {
		return nil, ErrCaseNotFound
	}
	return c, err
}

func GetCasesForUser(ctx context.Context, guildID, userID snowflake.ID) ([]*ModerationCase, error) {
	rows, err := DB.QueryContext(ctx, `
		SELECT case_id, case_type, user_id, mod_id, reason, punishment, created_at, until,
			lifted, lift_reason, lifted_by, lifted_at
		FROM mod_cases WHERE guild_id = ? AND user_id = ? ORDER BY case_id ASC
	`, guildID.String(), userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*ModerationCase
	for rows.Next() {
		c, err := scanCase(rows, guildID)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner, guildID snowflake.ID) (*ModerationCase, error) {
	c := &ModerationCase{GuildID: guildID}
	var uid, mid, caseType string
	var until, liftedAt sql.NullTime
	var lifted int
	var liftReason, liftedBy sql.NullString

	err := row.Scan(&c.ID, &caseType, &uid, &mid, &c.Reason, &c.Punishment, &c.CreatedAt, &until,
		&lifted, &liftReason, &liftedBy, &liftedAt)
	if err != nil {
		return nil, err
	}

	c.Type = CaseType(caseType)
	c.UserID, err = snowflake.Parse(uid)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID '%s' for case %d: %w", uid, c.ID, err)
	}
	c.ModID, err = snowflake.Parse(mid)
	if err != nil {
		return nil, fmt.Errorf("failed to parse moderator ID '%s' for case %d: %w", mid, c.ID, err)
	}
	if until.Valid {
		t := until.Time
		c.Until = &t
	}
	c.Lifted = lifted == 1
	c.LiftReason = liftReason.String
	if liftedBy.Valid && liftedBy.String != "" {
		c.LiftedBy, err = snowflake.Parse(liftedBy.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse lifter ID '%s' for case %d: %w", liftedBy.String, c.ID, err)
		}
	}
	if liftedAt.Valid {
		t := liftedAt.Time
		c.LiftedAt = &t
	}
	return c, nil
}

// --- Warn Points ---

// AdjustWarnPoints applies a relative delta at the storage layer and
// returns the new running total.
func AdjustWarnPoints(ctx context.Context, guildID, userID snowflake.ID, delta int) (int, error) {
	var total int
	err := DB.QueryRowContext(ctx, `
		INSERT INTO user_profiles (guild_id, user_id, warn_points) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET warn_points = warn_points + excluded.warn_points
		RETURNING warn_points
	`, guildID.String(), userID.String(), delta).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust warn points: %w", err)
	}
	return total, nil
}

// --- Warn Lifting ---

// LiftWarn annotates a WARN case as lifted. The original reason and
// punishment are left untouched; point reversal is a separate explicit
// REMOVEPOINTS case.
func LiftWarn(ctx context.Context, guildID snowflake.ID, caseID int64, liftedBy snowflake.ID, liftReason string) error {
	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var caseType string
	var lifted int
	err = tx.QueryRowContext(ctx,
		"SELECT case_type, lifted FROM mod_cases WHERE guild_id = ? AND case_id = ?",
		guildID.String(), caseID).Scan(&caseType, &lifted)
	if err == sql.ErrNoRows {
		return ErrCaseNotFound
	}
	if err != nil {
		return err
	}
	if CaseType(caseType) != CaseWarn {
		return ErrCaseNotWarn
	}
	if lifted == 1 {
		return ErrCaseAlreadyLifted
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE mod_cases SET lifted = 1, lift_reason = ?, lifted_by = ?, lifted_at = ?
		WHERE guild_id = ? AND case_id = ?
	`, liftReason, liftedBy.String(), time.Now().UTC(), guildID.String(), caseID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// --- Profiles ---

func GetProfile(ctx context.Context, guildID, userID snowflake.ID) (*UserProfile, error) {
	p := &UserProfile{GuildID: guildID, UserID: userID}
	var muted, kicked, clemmed, frozen int
	err := DB.QueryRowContext(ctx, `
		SELECT warn_points, xp, level, is_muted, was_warn_kicked, is_clemmed, is_xp_frozen
		FROM user_profiles WHERE guild_id = ? AND user_id = ?
	`, guildID.String(), userID.String()).Scan(&p.WarnPoints, &p.XP, &p.Level, &muted, &kicked, &clemmed, &frozen)
	if err == sql.ErrNoRows {
		// Absent row reads as a zeroed profile
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	p.IsMuted = muted == 1
	p.WasWarnKicked = kicked == 1
	p.IsClemmed = clemmed == 1
	p.IsXPFrozen = frozen == 1
	return p, nil
}

func SetMuted(ctx context.Context, guildID, userID snowflake.ID, muted bool) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO user_profiles (guild_id, user_id, is_muted) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET is_muted = excluded.is_muted
	`, guildID.String(), userID.String(), boolToInt(muted))
	return err
}

// MarkWarnKicked flips was_warn_kicked and reports whether this call was
// the one that flipped it, so the auto-kick path fires at most once even
// under racing warns.
func MarkWarnKicked(ctx context.Context, guildID, userID snowflake.ID) (bool, error) {
	result, err := DB.ExecContext(ctx, `
		UPDATE user_profiles SET was_warn_kicked = 1
		WHERE guild_id = ? AND user_id = ? AND was_warn_kicked = 0
	`, guildID.String(), userID.String())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// SetClemmed zeroes the punitive state and freezes XP.
func SetClemmed(ctx context.Context, guildID, userID snowflake.ID) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO user_profiles (guild_id, user_id, warn_points, is_clemmed, is_xp_frozen) VALUES (?, ?, 0, 1, 1)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET warn_points = 0, is_clemmed = 1, is_xp_frozen = 1
	`, guildID.String(), userID.String())
	return err
}

// --- Profile Transfer ---

// TransferProfile moves points, XP and case ownership from one identity
// to another. The merge policy decides what happens when the destination
// already has state: sum adds the totals, max keeps the larger, reject
// refuses the transfer. Punitive flags always OR-merge and cases are
// reassigned unconditionally.
func TransferProfile(ctx context.Context, guildID, oldUser, newUser snowflake.ID, policy string) (*UserProfile, int64, error) {
	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	old, err := readProfileTx(ctx, tx, guildID, oldUser)
	if err == sql.ErrNoRows {
		return nil, 0, ErrProfileNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	dest, destErr := readProfileTx(ctx, tx, guildID, newUser)
	destExists := destErr == nil
	if destErr != nil && destErr != sql.ErrNoRows {
		return nil, 0, destErr
	}

	merged := &UserProfile{GuildID: guildID, UserID: newUser}
	if destExists {
		var destCases int
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM mod_cases WHERE guild_id = ? AND user_id = ?",
			guildID.String(), newUser.String()).Scan(&destCases)
		if err != nil {
			return nil, 0, err
		}

		switch policy {
		case MergePolicyReject:
			if dest.WarnPoints > 0 || destCases > 0 {
				return nil, 0, ErrDestProfileNotEmpty
			}
			merged.WarnPoints = old.WarnPoints
			merged.XP = old.XP
			merged.Level = old.Level
		case MergePolicyMax:
			merged.WarnPoints = max(old.WarnPoints, dest.WarnPoints)
			merged.XP = max(old.XP, dest.XP)
			merged.Level = max(old.Level, dest.Level)
		default: // sum
			merged.WarnPoints = old.WarnPoints + dest.WarnPoints
			merged.XP = old.XP + dest.XP
			merged.Level = max(old.Level, dest.Level)
		}
		merged.IsMuted = old.IsMuted || dest.IsMuted
		merged.WasWarnKicked = old.WasWarnKicked || dest.WasWarnKicked
		merged.IsClemmed = old.IsClemmed || dest.IsClemmed
		merged.IsXPFrozen = old.IsXPFrozen || dest.IsXPFrozen
	} else {
		merged.WarnPoints = old.WarnPoints
		merged.XP = old.XP
		merged.Level = old.Level
		merged.IsMuted = old.IsMuted
		merged.WasWarnKicked = old.WasWarnKicked
		merged.IsClemmed = old.IsClemmed
		merged.IsXPFrozen = old.IsXPFrozen
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_profiles (guild_id, user_id, warn_points, xp, level, is_muted, was_warn_kicked, is_clemmed, is_xp_frozen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET
			warn_points = excluded.warn_points,
			xp = excluded.xp,
			level = excluded.level,
			is_muted = excluded.is_muted,
			was_warn_kicked = excluded.was_warn_kicked,
			is_clemmed = excluded.is_clemmed,
			is_xp_frozen = excluded.is_xp_frozen
	`, guildID.String(), newUser.String(), merged.WarnPoints, merged.XP, merged.Level,
		boolToInt(merged.IsMuted), boolToInt(merged.WasWarnKicked), boolToInt(merged.IsClemmed), boolToInt(merged.IsXPFrozen))
	if err != nil {
		return nil, 0, err
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM user_profiles WHERE guild_id = ? AND user_id = ?",
		guildID.String(), oldUser.String())
	if err != nil {
		return nil, 0, err
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE mod_cases SET user_id = ? WHERE guild_id = ? AND user_id = ?",
		newUser.String(), guildID.String(), oldUser.String())
	if err != nil {
		return nil, 0, err
	}
	moved, err := result.RowsAffected()
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}

	LogLedger(MsgLedgerTransferred, oldUser, newUser, moved)
	return merged, moved, nil
}

func readProfileTx(ctx context.Context, tx *sql.Tx, guildID, userID snowflake.ID) (*UserProfile, error) {
	p := &UserProfile{GuildID: guildID, UserID: userID}
	var muted, kicked, clemmed, frozen int
	err := tx.QueryRowContext(ctx, `
		SELECT warn_points, xp, level, is_muted, was_warn_kicked, is_clemmed, is_xp_frozen
		FROM user_profiles WHERE guild_id = ? AND user_id = ?
	`, guildID.String(), userID.String()).Scan(&p.WarnPoints, &p.XP, &p.Level, &muted, &kicked, &clemmed, &frozen)
	if err != nil {
		return nil, err
	}
	p.IsMuted = muted == 1
	p.WasWarnKicked = kicked == 1
	p.IsClemmed = clemmed == 1
	p.IsXPFrozen = frozen == 1
	return p, nil
}

// --- Message Constants ---

const (
	MsgLedgerCaseCreated = "Case #%d (%s) recorded for user %s"
	MsgLedgerTransferred = "Transferred profile %s -> %s (%d cases moved)"
)
