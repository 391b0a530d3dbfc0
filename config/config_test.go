package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("MAX_INGREDIENT_AMOUNT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 10000, cfg.Limits.MaxIngredientAmount)
	assert.Equal(t, 32000, cfg.Limits.MaxCookingTime)
	assert.Equal(t, 6, cfg.ShortLink.TokenLength)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAX_INGREDIENT_AMOUNT", "500")
	t.Setenv("ALLOWED_HOSTS", "foodgram.example.org, localhost ,")
	t.Setenv("SHORT_LINK_BASE_URL", "https://fg.example.org/")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "1h")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("DEFAULT_SU_NAME", "admin")
	t.Setenv("DEFAULT_SU_MAIL", "admin@example.org")
	t.Setenv("DEFAULT_SU_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Limits.MaxIngredientAmount)
	assert.Equal(t, []string{"foodgram.example.org", "localhost"}, cfg.Server.AllowedHosts)
	assert.Equal(t, "https://fg.example.org", cfg.ShortLink.BaseURL)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Superuser.HasSuperuser())
}

func TestLoad_InvalidStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortLinkLengthBounds(t *testing.T) {
	for _, v := range []string{"3", "17", "64"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("SHORT_LINK_LENGTH", v)

			_, err := Load()
			assert.ErrorContains(t, err, "SHORT_LINK_LENGTH")
		})
	}

	t.Setenv("SHORT_LINK_LENGTH", "16")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MaxShortLinkLength, cfg.ShortLink.TokenLength)
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 15*time.Minute, parseDuration("bogus", 15*time.Minute))
	assert.Equal(t, 7, parseInt("x", 7))
	assert.False(t, parseBool("nope"))
	assert.Empty(t, parseSlice(""))
}
