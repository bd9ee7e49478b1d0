package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "badword", FoldText("BadWord"))
	// Cyrillic а/о fold onto Latin
	assert.Equal(t, "bad", FoldText("bаd"))
	assert.Equal(t, "door", FoldText("dооr"))
	// Fullwidth forms fold onto ASCII
	assert.Equal(t, "abc", FoldText("ａｂｃ"))
	assert.Equal(t, "abc", FoldText("ＡＢＣ"))
}

func TestFoldTextIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"BadWord", "bаd wоrd", "ＨＥＬＬＯ", "plain text", "βαδ"}
	for _, in := range inputs {
		once := FoldText(in)
		require.Equal(t, once, FoldText(once), "folding %q twice changed the output", in)
	}
}

func TestEvaluateFiltersSubstring(t *testing.T) {
	t.Parallel()

	rules := []*FilterRule{{Word: "badword", BypassLevel: 5}}

	tests := []struct {
		name    string
		text    string
		matched bool
	}{
		{"plain", "this has a badword in it", true},
		{"uppercase", "BADWORD", true},
		{"embedded", "xxbadwordxx", true},
		{"spaced out", "b a d w o r d", true},
		{"punctuated", "b.a.d.w.o.r.d", true},
		{"homoglyph", "bаdwоrd", true},
		{"clean", "nothing to see here", false},
		{"empty", "", false},
		{"whitespace only", "   \n\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := EvaluateFilters(tt.text, rules, FilterContext{})
			if tt.matched {
				require.Len(t, matches, 1)
				assert.Equal(t, "badword", matches[0].Word)
			} else {
				assert.Empty(t, matches)
			}
		})
	}
}

func TestEvaluateFiltersFalsePositiveProne(t *testing.T) {
	t.Parallel()

	rules := []*FilterRule{{Word: "ash", BypassLevel: 5, IsFalsePositiveProne: true}}

	// Only a whole token of the folded text counts.
	assert.Len(t, EvaluateFilters("ash is here", rules, FilterContext{}), 1)
	assert.Len(t, EvaluateFilters("hello ASH", rules, FilterContext{}), 1)
	assert.Empty(t, EvaluateFilters("bashful", rules, FilterContext{}))
	assert.Empty(t, EvaluateFilters("washing machine", rules, FilterContext{}))
	// Spacing tricks do not produce a whole-token match
	assert.Empty(t, EvaluateFilters("a s h", rules, FilterContext{}))
}

func TestEvaluateFiltersBypass(t *testing.T) {
	t.Parallel()

	rules := []*FilterRule{{Word: "badword", BypassLevel: 5}}

	assert.Len(t, EvaluateFilters("badword", rules, FilterContext{PermissionLevel: 4}), 1)
	assert.Empty(t, EvaluateFilters("badword", rules, FilterContext{PermissionLevel: 5}))
	assert.Empty(t, EvaluateFilters("badword", rules, FilterContext{PermissionLevel: 10}))
}

func TestEvaluateFiltersPiracySuppression(t *testing.T) {
	t.Parallel()

	rules := []*FilterRule{{Word: "crackedapp", BypassLevel: 5, IsPiracyFlag: true}}

	// Suppressed only for developers inside the development channel
	assert.Empty(t, EvaluateFilters("crackedapp", rules, FilterContext{IsDeveloper: true, InDevChannel: true}))
	assert.Len(t, EvaluateFilters("crackedapp", rules, FilterContext{IsDeveloper: true}), 1)
	assert.Len(t, EvaluateFilters("crackedapp", rules, FilterContext{InDevChannel: true}), 1)
	assert.Len(t, EvaluateFilters("crackedapp", rules, FilterContext{}), 1)
}

func TestEvaluateFiltersNotifyShortCircuit(t *testing.T) {
	t.Parallel()

	rules := []*FilterRule{
		{Word: "first", BypassLevel: 5},
		{Word: "urgent", BypassLevel: 5, Notify: true},
		{Word: "third", BypassLevel: 5},
	}

	// A notify rule match is returned alone, dropping earlier matches.
	matches := EvaluateFilters("first urgent third", rules, FilterContext{})
	require.Len(t, matches, 1)
	assert.Equal(t, "urgent", matches[0].Word)
	assert.True(t, matches[0].Notify)

	// Without a notify hit, all matches accumulate in rule order.
	matches = EvaluateFilters("first and third", rules, FilterContext{})
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Word)
	assert.Equal(t, "third", matches[1].Word)
}
