package config

import (
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// System token program address: a known-valid base58 32-byte value.
const validMint = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

func validConfig() Config {
	return Config{
		RPCURL:                "https://api.mainnet-beta.solana.com",
		MintAddress:           validMint,
		TokenSymbol:           "NYLA",
		TransactionTypeFilter: FilterAll,
		PollInterval:          15 * time.Second,
		PriceAPIURL:           "https://api.dexscreener.com/latest/dex/tokens",
	}
}

func TestConfig_Validate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_MintRequired(t *testing.T) {
	cfg := validConfig()
	cfg.MintAddress = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_MintMalformed(t *testing.T) {
	cfg := validConfig()

	cfg.MintAddress = "not!base58"
	assert.Error(t, cfg.Validate())

	// Valid base58 but too short.
	cfg.MintAddress = "abc"
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_MintOffCurve(t *testing.T) {
	// y=2 (first byte 0x02, rest zero) has the right length and is valid
	// base58, but is not an ed25519 point: x has no square root.
	cfg := validConfig()
	raw := make([]byte, 32)
	raw[0] = 0x02
	cfg.MintAddress = base58.Encode(raw)
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_URLSchemes(t *testing.T) {
	cfg := validConfig()
	cfg.RPCURL = "ftp://example.com"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.DiscordWebhookURL = "not a url at all ://"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.WSURL = "https://example.com"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.WSURL = "wss://api.mainnet-beta.solana.com"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_TelegramPairing(t *testing.T) {
	cfg := validConfig()
	cfg.TelegramBotToken = "token"
	assert.Error(t, cfg.Validate())

	cfg.TelegramChatID = "chat"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_Thresholds(t *testing.T) {
	cfg := validConfig()
	cfg.MinTransactionAmount = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MinTransactionValueUSD = -0.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.PollInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_TypeFilter(t *testing.T) {
	for _, valid := range []string{FilterAll, FilterBuyOnly, FilterSellOnly} {
		cfg := validConfig()
		cfg.TransactionTypeFilter = valid
		assert.NoError(t, cfg.Validate())
	}

	cfg := validConfig()
	cfg.TransactionTypeFilter = "EVERYTHING"
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.RPCURL)
	assert.Equal(t, FilterAll, cfg.TransactionTypeFilter)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
	assert.Equal(t, 100.0, cfg.MinTransactionAmount)
	assert.True(t, cfg.DesktopNotifications)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SENTRY_MINT", validMint)
	t.Setenv("SENTRY_TOKEN_SYMBOL", "WIF")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, validMint, cfg.MintAddress)
	assert.Equal(t, "WIF", cfg.TokenSymbol)
}
