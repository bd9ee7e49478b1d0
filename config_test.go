package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		return &Config{Token: "token", TransferMergePolicy: MergePolicySum}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing token", func(t *testing.T) {
		cfg := base()
		cfg.Token = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad guild id", func(t *testing.T) {
		cfg := base()
		cfg.GuildID = "123"
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid guild id", func(t *testing.T) {
		cfg := base()
		cfg.GuildID = "123456789012345678"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("merge policies", func(t *testing.T) {
		for _, policy := range []string{MergePolicySum, MergePolicyMax, MergePolicyReject} {
			cfg := base()
			cfg.TransferMergePolicy = policy
			assert.NoError(t, cfg.Validate())
		}

		cfg := base()
		cfg.TransferMergePolicy = "average"
		assert.Error(t, cfg.Validate())
	})
}

func TestSplitIDList(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitIDList(""))
	assert.Equal(t, []string{"1"}, splitIDList("1"))
	assert.Equal(t, []string{"1", "2", "3"}, splitIDList("1, 2,3"))
}
