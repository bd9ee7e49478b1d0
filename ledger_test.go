package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, InitDatabase(context.Background(), dbPath))
	t.Cleanup(CloseDatabase)
}

func TestCreateCaseAssignsSequentialIDs(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)

	for want := int64(1); want <= 3; want++ {
		c, err := CreateCase(ctx, &ModerationCase{
			GuildID: guild,
			Type:    CaseWarn,
			UserID:  snowflake.ID(1),
			ModID:   snowflake.ID(2),
			Reason:  "test",
		})
		require.NoError(t, err)
		assert.Equal(t, want, c.ID)
	}

	// A different guild has its own counter.
	c, err := CreateCase(ctx, &ModerationCase{
		GuildID: snowflake.ID(200),
		Type:    CaseWarn,
		UserID:  snowflake.ID(1),
		ModID:   snowflake.ID(2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
}

func TestCaseRoundTrip(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)

	created, err := CreateCase(ctx, &ModerationCase{
		GuildID:    guild,
		Type:       CaseWarn,
		UserID:     snowflake.ID(11),
		ModID:      snowflake.ID(22),
		Reason:     "spamming links",
		Punishment: "50 points",
	})
	require.NoError(t, err)

	got, err := GetCase(ctx, guild, created.ID)
	require.NoError(t, err)
	assert.Equal(t, CaseWarn, got.Type)
	assert.Equal(t, snowflake.ID(11), got.UserID)
	assert.Equal(t, snowflake.ID(22), got.ModID)
	assert.Equal(t, "spamming links", got.Reason)
	assert.Equal(t, "50 points", got.Punishment)
	assert.False(t, got.Lifted)

	_, err = GetCase(ctx, guild, 9999)
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestLiftWarn(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)
	mod := snowflake.ID(22)

	warn, err := CreateCase(ctx, &ModerationCase{
		GuildID:    guild,
		Type:       CaseWarn,
		UserID:     snowflake.ID(11),
		ModID:      mod,
		Reason:     "original reason",
		Punishment: "75 points",
	})
	require.NoError(t, err)

	kick, err := CreateCase(ctx, &ModerationCase{
		GuildID: guild,
		Type:    CaseKick,
		UserID:  snowflake.ID(11),
		ModID:   mod,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, LiftWarn(ctx, guild, 9999, mod, "x"), ErrCaseNotFound)
	assert.ErrorIs(t, LiftWarn(ctx, guild, kick.ID, mod, "x"), ErrCaseNotWarn)

	require.NoError(t, LiftWarn(ctx, guild, warn.ID, mod, "appealed"))
	assert.ErrorIs(t, LiftWarn(ctx, guild, warn.ID, mod, "again"), ErrCaseAlreadyLifted)

	// Lifting annotates; the original reason and punishment survive.
	got, err := GetCase(ctx, guild, warn.ID)
	require.NoError(t, err)
	assert.True(t, got.Lifted)
	assert.Equal(t, "appealed", got.LiftReason)
	assert.Equal(t, mod, got.LiftedBy)
	assert.NotNil(t, got.LiftedAt)
	assert.Equal(t, "original reason", got.Reason)
	assert.Equal(t, "75 points", got.Punishment)
}

func TestAdjustWarnPoints(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)
	user := snowflake.ID(11)

	total, err := AdjustWarnPoints(ctx, guild, user, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, total)

	total, err = AdjustWarnPoints(ctx, guild, user, 25)
	require.NoError(t, err)
	assert.Equal(t, 75, total)

	total, err = AdjustWarnPoints(ctx, guild, user, -30)
	require.NoError(t, err)
	assert.Equal(t, 45, total)
}

// Concurrent warns against the same user must not lose updates, and
// concurrent case creation must never reuse an id.
func TestConcurrentWarns(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)
	user := snowflake.ID(11)

	const workers = 10
	var wg sync.WaitGroup
	ids := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := CreateCase(ctx, &ModerationCase{
				GuildID: guild,
				Type:    CaseWarn,
				UserID:  user,
				ModID:   snowflake.ID(2),
			})
			assert.NoError(t, err)
			ids <- c.ID
			_, err = AdjustWarnPoints(ctx, guild, user, 50)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "case id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)

	profile, err := GetProfile(ctx, guild, user)
	require.NoError(t, err)
	assert.Equal(t, workers*50, profile.WarnPoints)
}

func TestGetProfileAbsentRow(t *testing.T) {
	setupTestDB(t)

	profile, err := GetProfile(context.Background(), snowflake.ID(100), snowflake.ID(404))
	require.NoError(t, err)
	assert.Equal(t, 0, profile.WarnPoints)
	assert.False(t, profile.WasWarnKicked)
	assert.False(t, profile.IsMuted)
}

func TestMarkWarnKickedFlipsOnce(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)
	user := snowflake.ID(11)

	_, err := AdjustWarnPoints(ctx, guild, user, 400)
	require.NoError(t, err)

	flipped, err := MarkWarnKicked(ctx, guild, user)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = MarkWarnKicked(ctx, guild, user)
	require.NoError(t, err)
	assert.False(t, flipped)

	profile, err := GetProfile(ctx, guild, user)
	require.NoError(t, err)
	assert.True(t, profile.WasWarnKicked)
}

func TestSetClemmed(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)
	user := snowflake.ID(11)

	_, err := AdjustWarnPoints(ctx, guild, user, 250)
	require.NoError(t, err)

	require.NoError(t, SetClemmed(ctx, guild, user))

	profile, err := GetProfile(ctx, guild, user)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.WarnPoints)
	assert.True(t, profile.IsClemmed)
	assert.True(t, profile.IsXPFrozen)
}

func TestTransferProfile(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)

	t.Run("missing source", func(t *testing.T) {
		_, _, err := TransferProfile(ctx, guild, snowflake.ID(404), snowflake.ID(405), MergePolicySum)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("sum policy", func(t *testing.T) {
		src, dst := snowflake.ID(1), snowflake.ID(2)
		_, err := AdjustWarnPoints(ctx, guild, src, 100)
		require.NoError(t, err)
		_, err = AdjustWarnPoints(ctx, guild, dst, 50)
		require.NoError(t, err)
		_, err = CreateCase(ctx, &ModerationCase{GuildID: guild, Type: CaseWarn, UserID: src, ModID: snowflake.ID(9)})
		require.NoError(t, err)

		merged, moved, err := TransferProfile(ctx, guild, src, dst, MergePolicySum)
		require.NoError(t, err)
		assert.Equal(t, 150, merged.WarnPoints)
		assert.Equal(t, int64(1), moved)

		// Source profile is gone; cases now belong to the destination.
		srcProfile, err := GetProfile(ctx, guild, src)
		require.NoError(t, err)
		assert.Equal(t, 0, srcProfile.WarnPoints)

		cases, err := GetCasesForUser(ctx, guild, dst)
		require.NoError(t, err)
		assert.Len(t, cases, 1)
	})

	t.Run("max policy", func(t *testing.T) {
		src, dst := snowflake.ID(3), snowflake.ID(4)
		_, err := AdjustWarnPoints(ctx, guild, src, 100)
		require.NoError(t, err)
		_, err = AdjustWarnPoints(ctx, guild, dst, 300)
		require.NoError(t, err)

		merged, _, err := TransferProfile(ctx, guild, src, dst, MergePolicyMax)
		require.NoError(t, err)
		assert.Equal(t, 300, merged.WarnPoints)
	})

	t.Run("reject policy", func(t *testing.T) {
		src, dst := snowflake.ID(5), snowflake.ID(6)
		_, err := AdjustWarnPoints(ctx, guild, src, 100)
		require.NoError(t, err)
		_, err = AdjustWarnPoints(ctx, guild, dst, 10)
		require.NoError(t, err)

		_, _, err = TransferProfile(ctx, guild, src, dst, MergePolicyReject)
		assert.ErrorIs(t, err, ErrDestProfileNotEmpty)

		// The source must be untouched after a rejected transfer.
		profile, err := GetProfile(ctx, guild, src)
		require.NoError(t, err)
		assert.Equal(t, 100, profile.WarnPoints)
	})

	t.Run("flags always or-merge", func(t *testing.T) {
		src, dst := snowflake.ID(7), snowflake.ID(8)
		_, err := AdjustWarnPoints(ctx, guild, src, 100)
		require.NoError(t, err)
		_, err = MarkWarnKicked(ctx, guild, src)
		require.NoError(t, err)
		_, err = AdjustWarnPoints(ctx, guild, dst, 50)
		require.NoError(t, err)

		merged, _, err := TransferProfile(ctx, guild, src, dst, MergePolicySum)
		require.NoError(t, err)
		assert.True(t, merged.WasWarnKicked)
	})
}

func TestFilterRuleStorage(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)

	rule := &FilterRule{Word: "BadWord", BypassLevel: 5, Notify: true}
	require.NoError(t, AddFilterRule(ctx, guild, rule))

	// Uniqueness is case-insensitive: the word is stored lowercased.
	err := AddFilterRule(ctx, guild, &FilterRule{Word: "badword"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint")

	rules, err := GetFilterRules(ctx, guild)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "badword", rules[0].Word)
	assert.Equal(t, 5, rules[0].BypassLevel)
	assert.True(t, rules[0].Notify)

	removed, err := RemoveFilterRule(ctx, guild, "BADWORD")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = RemoveFilterRule(ctx, guild, "badword")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRaidPhraseStorage(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)

	require.NoError(t, AddRaidPhrase(ctx, guild, "Free Nitro"))

	phrases, err := GetRaidPhrases(ctx, guild)
	require.NoError(t, err)
	assert.Equal(t, []string{"free nitro"}, phrases)

	removed, err := RemoveRaidPhrase(ctx, guild, "FREE NITRO")
	require.NoError(t, err)
	assert.True(t, removed)

	phrases, err = GetRaidPhrases(ctx, guild)
	require.NoError(t, err)
	assert.Empty(t, phrases)
}
