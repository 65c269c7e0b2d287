package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const sampleNetworks = `{
	"localhost": {
		"url": "http://localhost:8545",
		"dataAddress": "0x345cA3e014Aaf5dcA488057592ee47305D9B3e10",
		"appAddress": "0xf25186B5081Ff5cE73482AD761DB0eB0d25abfBF"
	}
}`

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ORACLE_COUNT", "")
	t.Setenv("RPC_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, 30, cfg.OracleCount)
	require.Equal(t, 30*time.Second, cfg.RPCTimeout)
	require.Equal(t, "localhost", cfg.Network)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ORACLE_COUNT", "12")
	t.Setenv("ORACLE_FROM_BLOCK", "42")
	t.Setenv("READ_TIMEOUT", "not-a-number")
	t.Setenv("MONGO_TIMEOUT", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 12, cfg.OracleCount)
	require.Equal(t, int64(42), cfg.OracleFromBlock)
	require.Equal(t, 30*time.Second, cfg.ReadTimeout)
	require.Equal(t, 3*time.Second, cfg.MongoTimeout)
}

func TestParseNetwork(t *testing.T) {
	network, err := ParseNetwork([]byte(sampleNetworks), "localhost")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8545", network.URL)
	require.Equal(t, "ws://localhost:8545", network.WebSocketURL())
	require.Equal(t, common.HexToAddress("0xf25186B5081Ff5cE73482AD761DB0eB0d25abfBF"), network.AppContract())
}

func TestParseNetwork_UnknownName(t *testing.T) {
	_, err := ParseNetwork([]byte(sampleNetworks), "rinkeby")
	require.ErrorContains(t, err, "not found")
}

func TestParseNetwork_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: `{}`},
		{name: "missing app address", doc: `{"localhost": {"url": "http://localhost:8545"}}`},
		{name: "bad url scheme", doc: `{"localhost": {"url": "localhost:8545", "appAddress": "0xf25186B5081Ff5cE73482AD761DB0eB0d25abfBF"}}`},
		{name: "short address", doc: `{"localhost": {"url": "http://localhost:8545", "appAddress": "0x1234"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNetwork([]byte(tt.doc), "localhost")
			require.ErrorContains(t, err, "invalid network config")
		})
	}
}

func TestLoadNetwork_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleNetworks), 0o600))

	network, err := LoadNetwork(path, "localhost")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8545", network.URL)

	_, err = LoadNetwork(filepath.Join(t.TempDir(), "missing.json"), "localhost")
	require.Error(t, err)
}
