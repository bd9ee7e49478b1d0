package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMuteDuration(t *testing.T) {
	d, err := parseMuteDuration("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = parseMuteDuration("1h30m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	// Natural phrases parse relative to now.
	d, err = parseMuteDuration("2 hours")
	require.NoError(t, err)
	assert.InDelta(t, (2 * time.Hour).Seconds(), d.Seconds(), 5)

	_, err = parseMuteDuration("gibberish")
	assert.Error(t, err)

	// Zero and negative durations are rejected.
	_, err = parseMuteDuration("0s")
	assert.Error(t, err)
	_, err = parseMuteDuration("-5m")
	assert.Error(t, err)
}
