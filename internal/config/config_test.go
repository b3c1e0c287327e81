package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMainConfigMissingOptionalFileUsesDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Planilha1", cfg.SheetName)
	assert.Len(t, cfg.Suffixes, 18)
}

func TestLoadMainConfigMissingRequiredFile(t *testing.T) {
	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadMainConfigOverlaysYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
input_dir: /data/in
sheet_name: Dados
headers:
  equipment: Equipment
suffixes: ["11111", " 22222 "]
csv:
  delimiter: ";"
  encoding: Windows-1252
continue_on_error: false
`)

	cfg, err := LoadMainConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir, "unset keys keep defaults")
	assert.Equal(t, "Dados", cfg.SheetName)
	assert.Equal(t, "Equipment", cfg.Headers.Equipment)
	assert.Equal(t, "Centro custo", cfg.Headers.CostCenter)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.False(t, cfg.ContinueOnError)

	set, err := cfg.SuffixSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"11111", "22222"}, set.Sorted())
}

func TestLoadMainConfigEmptySuffixList(t *testing.T) {
	path := writeFile(t, "config.yaml", "suffixes: []\n")

	cfg, err := LoadMainConfig(path, true)
	require.NoError(t, err)
	set, err := cfg.SuffixSet()
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestLoadMainConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"short suffix", `suffixes: ["123"]`, `suffix "123"`},
		{"duplicate headers", "headers:\n  valid_from: X\n  valid_until: X\n", "are both"},
		{"bad encoding", "csv:\n  encoding: EBCDIC\n", "unsupported csv.encoding"},
		{"negative concurrency", "max_concurrency: -1\n", "max_concurrency"},
		{"bad yaml", "suffixes: [", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeFile(t, "config.yaml", tt.yaml), true)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCanonicalEncoding(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "UTF-8"},
		{"utf8", "UTF-8"},
		{"UTF-8", "UTF-8"},
		{"cp1252", "Windows-1252"},
		{"windows-1252", "Windows-1252"},
		{"Latin1", "ISO-8859-1"},
		{" iso-8859-1 ", "ISO-8859-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalEncoding(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, SupportedEncodings, got)
		})
	}

	_, ok := CanonicalEncoding("EBCDIC")
	assert.False(t, ok)
}

func TestLoadMainConfigAcceptsEncodingAliases(t *testing.T) {
	for _, alias := range []string{"CP1252", "latin1", "UTF8"} {
		t.Run(alias, func(t *testing.T) {
			path := writeFile(t, "config.yaml", "csv:\n  encoding: "+alias+"\n")
			cfg, err := LoadMainConfig(path, true)
			require.NoError(t, err)
			assert.Equal(t, alias, cfg.CSV.Encoding)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLEANER_INPUT_DIR", "/env/in")
	t.Setenv("CLEANER_SHEET_NAME", "Env")
	t.Setenv("CLEANER_SUFFIXES", "33333, 44444")
	t.Setenv("CLEANER_MAX_CONCURRENCY", "2")

	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "/env/in", cfg.InputDir)
	assert.Equal(t, "Env", cfg.SheetName)
	assert.Equal(t, []string{"33333", "44444"}, cfg.Suffixes)
	assert.Equal(t, 2, cfg.MaxConcurrency)
}

func TestEnvOverrideBadNumber(t *testing.T) {
	t.Setenv("CLEANER_MAX_CONCURRENCY", "many")

	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	assert.ErrorContains(t, err, "CLEANER_MAX_CONCURRENCY")
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "CLEANER_TEST_DOTENV=from-file\n")
	t.Setenv("CLEANER_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CLEANER_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("CLEANER_TEST_DOTENV"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a,, b ,"))
	assert.Nil(t, SplitList(""))
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.InputDir = filepath.Join(root, "in")
	cfg.OutputDir = filepath.Join(root, "out", "nested")
	cfg.ArchiveInput = true
	cfg.InputArchiveDir = filepath.Join(root, "archive")

	require.NoError(t, cfg.EnsureDirectories())
	for _, d := range []string{cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir} {
		assert.DirExists(t, d)
	}
}
