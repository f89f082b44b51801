package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencollector/ftcharset-go"
	"github.com/opencollector/ftcharset-go/internal/convert"
)

func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, v := range Vars() {
		t.Setenv(v.Key, "")
		require.NoError(t, os.Unsetenv(v.Key))
	}
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestDefaults(t *testing.T) {
	setup(t)
	require.NoError(t, Load())

	c, err := ConvertSettings()
	require.NoError(t, err)
	assert.Equal(t, ftcharset.UTF8FT, c.Options.From)
	assert.Equal(t, ftcharset.UTF16LEFT, c.Options.To)
	assert.Equal(t, convert.PolicyAbort, c.Options.OnMalformed)
	assert.Equal(t, convert.DefaultBufferSize, c.Options.BufferSize)
	assert.Equal(t, 4, c.Jobs)
	assert.Equal(t, "", c.OutputDir)
	assert.Equal(t, "info", LOG_LEVEL.ValueOrDefault())
}

func TestEnvironment(t *testing.T) {
	setup(t)
	t.Setenv("FTCONV_FROM", "utf-16le-ft")
	t.Setenv("FTCONV_TO", "UTF-8-FT")
	t.Setenv("FTCONV_ON_MALFORMED", "skip")
	t.Setenv("FTCONV_OUTPUT_DIR", "/tmp/out")
	require.NoError(t, Load())

	c, err := ConvertSettings()
	require.NoError(t, err)
	assert.Equal(t, ftcharset.UTF16LEFT, c.Options.From)
	assert.Equal(t, ftcharset.UTF8FT, c.Options.To)
	assert.Equal(t, convert.PolicySkip, c.Options.OnMalformed)
	assert.Equal(t, "/tmp/out", c.OutputDir)
}

const sample = `convert:
  to: UTF-8-FT
  onMalformed: replace
  jobs: 2
  bufferSize: 64
log:
  level: debug
`

func TestConfigFile(t *testing.T) {
	setup(t)
	file := filepath.Join(t.TempDir(), "ftconv.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sample), 0o600))
	viper.Set(CONFIG_FILE.ViperKey, file)
	require.NoError(t, Load())

	c, err := ConvertSettings()
	require.NoError(t, err)
	assert.Equal(t, ftcharset.UTF8FT, c.Options.From)
	assert.Equal(t, ftcharset.UTF8FT, c.Options.To)
	assert.Equal(t, convert.PolicyReplace, c.Options.OnMalformed)
	assert.Equal(t, 64, c.Options.BufferSize)
	assert.Equal(t, 2, c.Jobs)
	assert.Equal(t, "debug", LOG_LEVEL.ValueOrDefault())
}

func TestDefaultConfigFile(t *testing.T) {
	home := setup(t)
	dir := filepath.Join(home, ".ftconv")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sample), 0o600))
	require.NoError(t, Load())

	c, err := ConvertSettings()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Jobs)
}

func TestMissingConfigFile(t *testing.T) {
	setup(t)
	viper.Set(CONFIG_FILE.ViperKey, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, Load())
}

func TestInvalidSettings(t *testing.T) {
	cases := map[string]string{
		"FTCONV_FROM":         "UTF-8",
		"FTCONV_TO":           "latin1",
		"FTCONV_ON_MALFORMED": "ignore",
		"FTCONV_JOBS":         "0",
		"FTCONV_BUFFER_SIZE":  "big",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setup(t)
			t.Setenv(key, value)
			require.NoError(t, Load())
			_, err := ConvertSettings()
			assert.Error(t, err)
		})
	}
}
