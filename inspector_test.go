package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteRegex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		code string
	}{
		{"join discord.gg/abc123", "abc123"},
		{"https://discord.com/invite/my-server", "my-server"},
		{"https://discordapp.com/invite/xYz", "xYz"},
		{"DISCORD.GG/shouty", "shouty"},
	}
	for _, tt := range tests {
		m := inviteRegex.FindStringSubmatch(tt.text)
		require.NotNil(t, m, "expected a match in %q", tt.text)
		assert.Equal(t, tt.code, m[1])
	}

	assert.Nil(t, inviteRegex.FindStringSubmatch("no invites here"))
	assert.Nil(t, inviteRegex.FindStringSubmatch("discord.gg without a code"))
}

func TestSpoilerRegex(t *testing.T) {
	t.Parallel()

	assert.True(t, spoilerRegex.MatchString("watch out ||spoiler here||"))
	assert.True(t, spoilerRegex.MatchString("||multi\nline||"))
	assert.False(t, spoilerRegex.MatchString("|single| bars"))
	assert.False(t, spoilerRegex.MatchString("|| unterminated"))
}

func TestScamListRefreshAndMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# comment line\nscam-site.example\n\nEVIL.example\n"))
	}))
	defer server.Close()

	list := NewScamList("test", server.URL)
	require.NoError(t, list.Refresh(context.Background()))

	entry, ok := list.Match("check out https://scam-site.example/win")
	assert.True(t, ok)
	assert.Equal(t, "scam-site.example", entry)

	// Matching is case-insensitive; entries are stored lowercased.
	_, ok = list.Match("visit EVIL.EXAMPLE now")
	assert.True(t, ok)

	_, ok = list.Match("a perfectly fine message")
	assert.False(t, ok)

	// Comment lines never become entries.
	_, ok = list.Match("# comment line")
	assert.False(t, ok)
}

// A failed refresh keeps the last-known list instead of clearing it.
func TestScamListRefreshFailsOpen(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("scam-site.example\n"))
	}))
	defer server.Close()

	list := NewScamList("test", server.URL)
	require.NoError(t, list.Refresh(context.Background()))

	healthy = false
	err := list.Refresh(context.Background())
	require.Error(t, err)

	_, ok := list.Match("https://scam-site.example/win")
	assert.True(t, ok, "entries must survive a failed refresh")
}

func TestScamListEmptyURL(t *testing.T) {
	t.Parallel()

	list := NewScamList("test", "")
	assert.NoError(t, list.Refresh(context.Background()))
	_, ok := list.Match("anything")
	assert.False(t, ok)
}

func TestIsNewlineExempt(t *testing.T) {
	prev := GlobalConfig
	defer func() { GlobalConfig = prev }()

	GlobalConfig = &Config{
		NewlineExemptRoleID:    "111111111111111111",
		NewlineExemptChannelID: "222222222222222222",
	}

	exemptRole, err := snowflake.Parse("111111111111111111")
	require.NoError(t, err)
	exemptChannel, err := snowflake.Parse("222222222222222222")
	require.NoError(t, err)
	otherChannel := snowflake.ID(3)

	assert.True(t, isNewlineExempt(exemptChannel, []snowflake.ID{exemptRole}))
	// Both the role and the channel must match.
	assert.False(t, isNewlineExempt(otherChannel, []snowflake.ID{exemptRole}))
	assert.False(t, isNewlineExempt(exemptChannel, []snowflake.ID{snowflake.ID(9)}))
	assert.False(t, isNewlineExempt(exemptChannel, nil))

	// Unconfigured exemption never applies.
	GlobalConfig = &Config{}
	assert.False(t, isNewlineExempt(exemptChannel, []snowflake.ID{exemptRole}))
}
