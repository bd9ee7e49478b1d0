package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		points        int
		wasWarnKicked bool
		isMember      bool
		want          EscalationAction
	}{
		{"zero points", 0, false, true, ActionWarnOnly},
		{"below kick threshold", 399, false, true, ActionWarnOnly},
		{"at kick threshold", 400, false, true, ActionKick},
		{"just below ban threshold", 599, false, true, ActionKick},
		{"at ban threshold", 600, false, true, ActionBan},
		{"far past ban threshold", 1000, false, true, ActionBan},
		{"kick range, already kicked", 450, true, true, ActionWarnOnly},
		{"kick range, not a member", 450, false, false, ActionWarnOnly},
		{"ban ignores kick flag", 600, true, true, ActionBan},
		{"ban ignores membership", 700, true, false, ActionBan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.points, tt.wasWarnKicked, tt.isMember)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The same total always maps to the same action: the decision is a pure
// function of its inputs.
func TestDecideDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		assert.Equal(t, ActionKick, Decide(420, false, true))
		assert.Equal(t, ActionBan, Decide(630, false, true))
	}
}

// A user warned to 400 gets kicked once; rejoining and reaching the same
// range again only warns, but crossing 600 still bans.
func TestDecideKickOnceLifecycle(t *testing.T) {
	t.Parallel()

	// 350 + 50 crosses the kick threshold
	assert.Equal(t, ActionKick, Decide(400, false, true))

	// After the kick flag is set, 450 in the kick range only warns
	assert.Equal(t, ActionWarnOnly, Decide(450, true, true))

	// 580 + 50 crosses the ban threshold regardless of history
	assert.Equal(t, ActionBan, Decide(630, true, true))
}

func TestEscalationActionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "WARN_ONLY", ActionWarnOnly.String())
	assert.Equal(t, "KICK", ActionKick.String())
	assert.Equal(t, "BAN", ActionBan.String())
}
