// Package config binds the ftconv settings to flags, FTCONV_* environment
// variables and an optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"github.com/opencollector/ftcharset-go"
	"github.com/opencollector/ftcharset-go/internal/convert"
)

const Prefix = "FTCONV"

type Var struct {
	Key        string // e.g. "FTCONV_FROM"
	ViperKey   string // e.g. "convert.from"
	Default    string
	HasDefault bool
}

func Define(envName, viperKey string, defaultVal ...string) Var {
	v := Var{Key: Prefix + "_" + envName, ViperKey: viperKey}
	if len(defaultVal) > 0 {
		v.Default = defaultVal[0]
		v.HasDefault = true
	}
	return v
}

// ValueOrDefault looks at viper first, then the environment, then the default.
func (v Var) ValueOrDefault() string {
	if v.ViperKey != "" && viper.IsSet(v.ViperKey) {
		return viper.GetString(v.ViperKey)
	}
	if val, ok := os.LookupEnv(v.Key); ok {
		return val
	}
	if v.HasDefault {
		return v.Default
	}
	return ""
}

func (v Var) BindEnv() error {
	if v.ViperKey == "" {
		return nil
	}
	return viper.BindEnv(v.ViperKey, v.Key)
}

func (v Var) SetDefault() {
	if v.HasDefault && v.ViperKey != "" {
		viper.SetDefault(v.ViperKey, v.Default)
	}
}

//nolint:revive,gochecknoglobals,staticcheck // env-style names
var (
	CONFIG_FILE  = Define("CONFIG_FILE", "global.config")
	LOG_LEVEL    = Define("LOG_LEVEL", "log.level", "info")
	FROM         = Define("FROM", "convert.from", ftcharset.UTF8FT.Name())
	TO           = Define("TO", "convert.to", ftcharset.UTF16LEFT.Name())
	ON_MALFORMED = Define("ON_MALFORMED", "convert.onMalformed", convert.PolicyAbort.String())
	JOBS         = Define("JOBS", "convert.jobs", "4")
	BUFFER_SIZE  = Define("BUFFER_SIZE", "convert.bufferSize", strconv.Itoa(convert.DefaultBufferSize))
	OUTPUT_DIR   = Define("OUTPUT_DIR", "convert.outputDir")
)

func Vars() []Var {
	return []Var{CONFIG_FILE, LOG_LEVEL, FROM, TO, ON_MALFORMED, JOBS, BUFFER_SIZE, OUTPUT_DIR}
}

// Load binds every variable to its environment key, installs the defaults
// and reads the config file. A missing default config file is not an error;
// a missing file named explicitly is.
func Load() error {
	for _, v := range Vars() {
		if err := v.BindEnv(); err != nil {
			return fmt.Errorf("failed to bind %s: %w", v.Key, err)
		}
		v.SetDefault()
	}

	if file := viper.GetString(CONFIG_FILE.ViperKey); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", file, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home dir: %w", err)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(home, ".ftconv"))
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

type Convert struct {
	Options   convert.Options
	Jobs      int
	OutputDir string
}

func charset(v Var) (ftcharset.Charset, error) {
	name := v.ValueOrDefault()
	cs, ok := ftcharset.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%s: unsupported charset %q", v.ViperKey, name)
	}
	return cs, nil
}

func positive(v Var) (int, error) {
	s := v.ValueOrDefault()
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: expected a positive integer, got %q", v.ViperKey, s)
	}
	return n, nil
}

// ConvertSettings resolves the convert.* keys. The logger is left for the
// caller to fill in.
func ConvertSettings() (Convert, error) {
	var c Convert
	var err error
	if c.Options.From, err = charset(FROM); err != nil {
		return c, err
	}
	if c.Options.To, err = charset(TO); err != nil {
		return c, err
	}
	if c.Options.OnMalformed, err = convert.ParsePolicy(ON_MALFORMED.ValueOrDefault()); err != nil {
		return c, fmt.Errorf("%s: %w", ON_MALFORMED.ViperKey, err)
	}
	if c.Options.BufferSize, err = positive(BUFFER_SIZE); err != nil {
		return c, err
	}
	if c.Jobs, err = positive(JOBS); err != nil {
		return c, err
	}
	c.OutputDir = OUTPUT_DIR.ValueOrDefault()
	return c, nil
}
