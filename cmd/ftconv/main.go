package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/opencollector/ftcharset-go"
	"github.com/opencollector/ftcharset-go/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type app struct {
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "ftconv",
		Short: "Convert between UTF-8-FT and UTF-16LE-FT",
		Long: `ftconv converts text between UTF-8-FT and UTF-16LE-FT.

Both charsets carry unpaired surrogates through unchanged, so any sequence of
16-bit code units survives a round trip.

Examples:
	ftconv convert --from UTF-16LE-FT --to UTF-8-FT < in.txt > out.txt
	ftconv convert --on-malformed replace -d out/ a.txt b.txt
	ftconv charsets -o yaml
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			log, err := newLogger(cmd, config.LOG_LEVEL.ValueOrDefault())
			if err != nil {
				return err
			}
			a.log = log
			ftcharset.SetLogger(log)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	setupRootCmd(rootCmd, a)
	return rootCmd
}

func setupRootCmd(rootCmd *cobra.Command, a *app) {
	rootCmd.AddCommand(a.newConvertCmd())
	rootCmd.AddCommand(a.newCharsetsCmd())

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.ftconv/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	bindFlag(rootCmd.PersistentFlags(), "config", config.CONFIG_FILE)
	bindFlag(rootCmd.PersistentFlags(), "log-level", config.LOG_LEVEL)
}

func bindFlag(fs *pflag.FlagSet, name string, v config.Var) {
	if err := viper.BindPFlag(v.ViperKey, fs.Lookup(name)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
	}
}

// newLogger writes console-encoded entries to the command's stderr.
func newLogger(cmd *cobra.Command, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())),
		lvl,
	)
	return zap.New(core).Named("ftconv"), nil
}
