package main

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestPunishCooldownWindow(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	pc := NewPunishCooldown()
	pc.now = func() time.Time { return now }

	guild := snowflake.ID(1)
	user := snowflake.ID(2)

	// First two triggers in the window pass silently.
	assert.False(t, pc.ShouldAlsoMute(guild, user))
	assert.False(t, pc.ShouldAlsoMute(guild, user))

	// Every further trigger in the still-open window mutes.
	assert.True(t, pc.ShouldAlsoMute(guild, user))
	assert.True(t, pc.ShouldAlsoMute(guild, user))

	// Once the window elapses the count starts over.
	now = now.Add(punishWindow)
	assert.False(t, pc.ShouldAlsoMute(guild, user))
	assert.False(t, pc.ShouldAlsoMute(guild, user))
	assert.True(t, pc.ShouldAlsoMute(guild, user))
}

func TestPunishCooldownWindowDoesNotSlide(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	pc := NewPunishCooldown()
	pc.now = func() time.Time { return now }

	guild := snowflake.ID(1)
	user := snowflake.ID(2)

	assert.False(t, pc.ShouldAlsoMute(guild, user))

	// Triggers inside the window never push the window start forward.
	now = now.Add(6 * time.Second)
	assert.False(t, pc.ShouldAlsoMute(guild, user))

	now = now.Add(5 * time.Second) // 11s after window start
	assert.False(t, pc.ShouldAlsoMute(guild, user))
}

func TestPunishCooldownPerMember(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	pc := NewPunishCooldown()
	pc.now = func() time.Time { return now }

	guild := snowflake.ID(1)
	alice := snowflake.ID(10)
	bob := snowflake.ID(20)

	assert.False(t, pc.ShouldAlsoMute(guild, alice))
	assert.False(t, pc.ShouldAlsoMute(guild, alice))
	assert.True(t, pc.ShouldAlsoMute(guild, alice))

	// A different member has an independent bucket.
	assert.False(t, pc.ShouldAlsoMute(guild, bob))

	// Same user in a different guild too.
	assert.False(t, pc.ShouldAlsoMute(snowflake.ID(2), alice))
}

func TestContentThrottle(t *testing.T) {
	t.Parallel()

	key := "throttle-test-key"
	assert.True(t, ContentThrottleAllow(key))
	assert.False(t, ContentThrottleAllow(key))

	// Independent keys are unaffected.
	assert.True(t, ContentThrottleAllow("throttle-other-key"))
}
