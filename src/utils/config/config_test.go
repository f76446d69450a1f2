package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	config, err := Load("")
	require.Nil(t, err)

	require.Equal(t, int64(11155111), config.Chain.ChainId)
	require.Equal(t, 5*time.Minute, config.Chain.ConfirmationTimeout)
	require.Equal(t, time.Minute, config.Repository.SnapshotTTL)
	require.Equal(t, 8, config.Repository.DetailWorkers)
	require.Equal(t, 2*time.Second, config.Notifier.SuccessDelay)
	require.Equal(t, 3*time.Second, config.Notifier.ErrorDelay)
	require.Equal(t, "sqlite", config.Database.Driver)
	require.False(t, config.Redis.Enabled)
	require.Equal(t, []string{"*"}, config.Api.AllowOrigins)
	require.Equal(t, 0.5, config.Api.RateLimit)
	require.Empty(t, config.Chain.PrivateKey)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("MINDSHARE_REPOSITORY_DETAIL_WORKERS", "3")
	t.Setenv("MINDSHARE_NOTIFIER_ERROR_DELAY", "5s")
	t.Setenv("MINDSHARE_CHAIN_CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	t.Setenv("MINDSHARE_API_ALLOW_ORIGINS", "http://localhost:3000,https://mindshare.example")

	config, err := Load("")
	require.Nil(t, err)

	require.Equal(t, 3, config.Repository.DetailWorkers)
	require.Equal(t, 5*time.Second, config.Notifier.ErrorDelay)
	require.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", config.Chain.ContractAddress)
	require.Equal(t, []string{"http://localhost:3000", "https://mindshare.example"}, config.Api.AllowOrigins)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{
		"Chain": {"RpcUrl": "http://127.0.0.1:8545", "ChainId": 31337},
		"Redis": {"Enabled": true, "ChannelName": "statuses"}
	}`), 0600)
	require.Nil(t, err)

	config, err := Load(path)
	require.Nil(t, err)

	require.Equal(t, "http://127.0.0.1:8545", config.Chain.RpcUrl)
	require.Equal(t, int64(31337), config.Chain.ChainId)
	require.True(t, config.Redis.Enabled)
	require.Equal(t, "statuses", config.Redis.ChannelName)

	// Untouched sections keep defaults
	require.Equal(t, 30*time.Second, config.Chain.CallTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NotNil(t, err)
}
