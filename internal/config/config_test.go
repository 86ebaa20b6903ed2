package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PORT", "TODO_PORT", "TODO_HOST", "TODO_STORE_DRIVER", "TODO_STORE_PATH",
		"TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_EXPORT_TIMEZONE",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_FileFormats(t *testing.T) {
	clearEnv(t)

	want := Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Store:  StoreConfig{Driver: "bolt", Path: "/var/lib/todo/todos.bolt"},
		Log:    LogConfig{Level: "debug", Format: DefaultLogFormat},
		Export: ExportConfig{Timezone: "UTC"},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "ini",
			file: "config.ini",
			content: `[server]
host = 0.0.0.0
port = 8080

[store]
driver = bolt
path = /var/lib/todo/todos.bolt

[log]
level = debug

[export]
timezone = UTC
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `[server]
host = "0.0.0.0"
port = 8080

[store]
driver = "bolt"
path = "/var/lib/todo/todos.bolt"

[log]
level = "debug"

[export]
timezone = "UTC"
`,
		},
		{
			name: "jsonc",
			file: "config.jsonc",
			content: `{
	// listen on every interface
	"server": {"host": "0.0.0.0", "port": 8080},
	"store": {"driver": "bolt", "path": "/var/lib/todo/todos.bolt"},
	"log": {"level": "debug"},
	"export": {"timezone": "UTC"},
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			cfg, err := Load(path)
			require.NoError(t, err)

			want.File = path
			if diff := cmp.Diff(want, *cfg); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}

			require.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.toml", `[server]
port = 4000
host = "10.0.0.1"

[log]
level = "warn"
`)

	t.Setenv("PORT", "5000")
	t.Setenv("TODO_HOST", "10.0.0.2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port, "PORT beats the file")
	assert.Equal(t, "10.0.0.2", cfg.Server.Host)
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv("TODO_PORT", "6000")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.Port, "TODO_PORT beats PORT")

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--port", "7000", "--log-level", "error"}))
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "10.0.0.2", cfg.Server.Host, "unset flags keep earlier values")
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "server: {}"))
	assert.ErrorIs(t, err, errUnsupportedFormat)

	_, err = Load(writeFile(t, "config.json", `{"server": `))
	assert.Error(t, err)

	t.Setenv("TODO_PORT", "eighty")

	_, err = Load(writeFile(t, "config.ini", ""))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bolt driver", mutate: func(c *Config) { c.Store.Driver = "bolt" }},
		{name: "uppercase level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "named zone", mutate: func(c *Config) { c.Export.Timezone = "UTC" }},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "postgres" }, wantErr: true},
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: true},
		{name: "unknown format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "unknown zone", mutate: func(c *Config) { c.Export.Timezone = "Mars/Olympus" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1:3000", cfg.Addr())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Store.Path = "/tmp/custom.db"
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, "/tmp/custom.db", cfg.Store.Path)
}
