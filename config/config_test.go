package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RAPPORT_TEMPLATE", "RAPPORT_OUTPUT", "RAPPORT_NAME", "RAPPORT_WORKERS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Template_Rapport.docx", cfg.Template)
	assert.Equal(t, "Generated_Reports", cfg.Output)
	assert.Equal(t, "Rapport_d_activite", cfg.Prefix)
	assert.Equal(t, 1, cfg.Workers)
	assert.Empty(t, cfg.Name)
	assert.False(t, cfg.Headers)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rapport.yaml")
	content := `
template: modeles/septembre.docx
output: /srv/rapports
name: Jean Dupont
workers: 4
headers: true
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "modeles/septembre.docx", cfg.Template)
	assert.Equal(t, "/srv/rapports", cfg.Output)
	assert.Equal(t, "Jean Dupont", cfg.Name)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Headers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Values absent from the file keep their defaults.
	assert.Equal(t, "Rapport_d_activite", cfg.Prefix)
	assert.Equal(t, "console", cfg.Logging.Encoding)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rapport.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)

	t.Run("paths and name", func(t *testing.T) {
		t.Setenv("RAPPORT_TEMPLATE", "/tmp/modele.docx")
		t.Setenv("RAPPORT_OUTPUT", "/tmp/out")
		t.Setenv("RAPPORT_NAME", "Marie")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "/tmp/modele.docx", cfg.Template)
		assert.Equal(t, "/tmp/out", cfg.Output)
		assert.Equal(t, "Marie", cfg.Name)
	})

	t.Run("empty name clears the file value", func(t *testing.T) {
		t.Setenv("RAPPORT_NAME", "")

		cfg := &Config{Name: "from file"}
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Empty(t, cfg.Name)
	})

	t.Run("workers", func(t *testing.T) {
		t.Setenv("RAPPORT_WORKERS", "8")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, 8, cfg.Workers)
	})

	t.Run("invalid workers", func(t *testing.T) {
		t.Setenv("RAPPORT_WORKERS", "many")

		cfg := DefaultConfig()
		assert.Error(t, cfg.applyEnvOverrides())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty template", func(c *Config) { c.Template = "" }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad encoding", func(c *Config) { c.Logging.Encoding = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "rapport.yaml")

	cfg := DefaultConfig()
	cfg.Name = "Zoé"
	cfg.Workers = 3
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
