package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, c.ReconnectInterval)
	assert.Equal(t, SignerDev, c.SignerMode)
	assert.Equal(t, DefaultShareFeeWei, c.ShareFeeWei)
	assert.False(t, c.PaymentsEnabled)
	assert.Equal(t, 15*time.Minute, c.AutoLock())
}

func TestLoadConfigFrom_NoArgsGivesDefaults(t *testing.T) {
	c := LoadConfigFrom(nil)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, c))
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFrom_JSON(t *testing.T) {
	path := writeFile(t, "client.json", `{
		"server_endpoint_addr": "www.example:9000",
		"reconnect_interval": "10s",
		"bridge_allowed_origins": ["chrome-extension://abc"],
		"payments_enabled": true,
		"auto_lock_minutes": 0,
		"signer_mode": "rpc"
	}`)

	c := LoadConfigFrom([]string{"-config", path})

	assert.Equal(t, "www.example:9000", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.ReconnectInterval)
	assert.Equal(t, []string{"chrome-extension://abc"}, c.BridgeAllowedOrigins)
	assert.True(t, c.PaymentsEnabled)
	assert.Equal(t, 0, c.AutoLockMinutes, "explicit zero disables auto-lock")
	assert.Equal(t, SignerRPC, c.SignerMode)
	assert.Equal(t, DefaultShareFeeWei, c.ShareFeeWei, "absent keys keep defaults")
}

func TestLoadConfigFrom_TOML(t *testing.T) {
	path := writeFile(t, "client.toml", `
data_dir = "/tmp/vault"
share_fee_wei = "5"
fee_recipient = "0x1111111111111111111111111111111111111111"
`)

	c := LoadConfigFrom([]string{"-c", path})

	assert.Equal(t, "/tmp/vault", c.DataDir)
	assert.Equal(t, "5", c.ShareFeeWei)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", c.FeeRecipient)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		check       func(t *testing.T, c *Config)
		expectPanic bool
	}{
		{
			name: "address and interval",
			args: []string{"-a", "127.0.0.1:9090", "-i", "10"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "127.0.0.1:9090", c.ServerEndpointAddr)
				assert.Equal(t, 10*time.Second, c.ReconnectInterval)
			},
		},
		{
			name: "origins and payments",
			args: []string{"-origins", "http://a, http://b", "-pay=true", "-signer", "rpc", "-unknown", "x"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, []string{"http://a", "http://b"}, c.BridgeAllowedOrigins)
				assert.True(t, c.PaymentsEnabled)
				assert.Equal(t, SignerRPC, c.SignerMode)
			},
		},
		{name: "incorrect interval", args: []string{"-i", "abc"}, expectPanic: true},
		{name: "incorrect lock", args: []string{"-lock", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(c, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(c, tt.args) })
			tt.check(t, c)
		})
	}
}

func TestLoadConfigFrom_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "client.json", `{"server_endpoint_addr": ":1111", "reconnect_interval": "10s"}`)

	c := LoadConfigFrom([]string{"-c", path, "-a", ":2222"})

	assert.Equal(t, ":2222", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.ReconnectInterval, "unset flag keeps file value")
}

func TestLoadConfigFrom_Panics(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		assert.Panics(t, func() { LoadConfigFrom([]string{"-c", filepath.Join(t.TempDir(), "nope.json")}) })
	})
	t.Run("bad json", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{`)
		assert.Panics(t, func() { LoadConfigFrom([]string{"-c", path}) })
	})
}
