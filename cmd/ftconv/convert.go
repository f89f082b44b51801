package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/opencollector/ftcharset-go"
	"github.com/opencollector/ftcharset-go/internal/config"
	"github.com/opencollector/ftcharset-go/internal/convert"
)

func (a *app) newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert files or stdin",
		Long: `Convert reads each file (or stdin when none is given) in the --from charset
and writes it in the --to charset. Files are written under --output-dir with
their base name; stdin is written to stdout.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.ConvertSettings()
			if err != nil {
				return err
			}
			settings.Options.Logger = a.log
			conv := convert.New(settings.Options)

			if len(args) == 0 {
				return a.convertStdio(cmd, conv, settings.Options.To)
			}
			return a.convertFiles(cmd.Context(), conv, args, settings)
		},
	}

	setupConvertCmd(cmd)
	return cmd
}

func setupConvertCmd(cmd *cobra.Command) {
	cmd.Flags().StringP("from", "f", "", "Source charset (default UTF-8-FT)")
	bindFlag(cmd.Flags(), "from", config.FROM)

	cmd.Flags().StringP("to", "t", "", "Target charset (default UTF-16LE-FT)")
	bindFlag(cmd.Flags(), "to", config.TO)

	cmd.Flags().String("on-malformed", "", "What to do with malformed input: abort|skip|replace (default abort)")
	bindFlag(cmd.Flags(), "on-malformed", config.ON_MALFORMED)

	cmd.Flags().IntP("jobs", "j", 0, "Number of files converted at once (default 4)")
	bindFlag(cmd.Flags(), "jobs", config.JOBS)

	cmd.Flags().Int("buffer-size", 0, "Read buffer size in bytes")
	bindFlag(cmd.Flags(), "buffer-size", config.BUFFER_SIZE)

	cmd.Flags().StringP("output-dir", "d", "", "Directory for converted files")
	bindFlag(cmd.Flags(), "output-dir", config.OUTPUT_DIR)

	charsets := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, cs := range ftcharset.Charsets() {
			names = append(names, cs.Name())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
	_ = cmd.RegisterFlagCompletionFunc("from", charsets)
	_ = cmd.RegisterFlagCompletionFunc("to", charsets)
	_ = cmd.RegisterFlagCompletionFunc(
		"on-malformed",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"abort", "skip", "replace"}, cobra.ShellCompDirectiveNoFileComp
		},
	)
}

func (a *app) convertStdio(cmd *cobra.Command, conv *convert.Converter, to ftcharset.Charset) error {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && to == ftcharset.UTF16LEFT && term.IsTerminal(int(f.Fd())) {
		a.log.Warn("writing UTF-16LE-FT to a terminal")
	}
	stats, err := conv.Convert(cmd.Context(), out, cmd.InOrStdin())
	a.logStats("-", stats)
	return err
}

func (a *app) logStats(name string, stats convert.Stats) {
	a.log.Info("converted",
		zap.String("input", name),
		zap.Int64("bytesIn", stats.BytesIn),
		zap.Int64("bytesOut", stats.BytesOut),
		zap.Int("malformed", stats.Malformed))
}

// outputPaths maps every input to its file under dir, refusing collisions
// between outputs and with the inputs themselves.
func outputPaths(files []string, dir string) ([]string, error) {
	if dir == "" {
		return nil, ErrNoOutputDir
	}
	inputs := make(map[string]bool, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, err
		}
		inputs[abs] = true
	}

	seen := make(map[string]string, len(files))
	outs := make([]string, len(files))
	for i, file := range files {
		out, err := filepath.Abs(filepath.Join(dir, filepath.Base(file)))
		if err != nil {
			return nil, err
		}
		if inputs[out] {
			return nil, fmt.Errorf("%w: %s", ErrOverwriteInput, file)
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateOutput, prev, file)
		}
		seen[out] = file
		outs[i] = out
	}
	return outs, nil
}

func (a *app) convertFiles(ctx context.Context, conv *convert.Converter, files []string, settings config.Convert) error {
	outs, err := outputPaths(files, settings.OutputDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Jobs)
	for i, file := range files {
		file := file
		out := outs[i]
		g.Go(func() error {
			stats, err := convertFile(ctx, conv, file, out)
			if err != nil {
				a.log.Error("conversion failed", zap.String("input", file), zap.Error(err))
				return fmt.Errorf("%s: %w", file, err)
			}
			a.logStats(file, stats)
			return nil
		})
	}
	return g.Wait()
}

func convertFile(ctx context.Context, conv *convert.Converter, in, out string) (convert.Stats, error) {
	r, err := os.Open(in)
	if err != nil {
		return convert.Stats{}, err
	}
	defer r.Close()

	w, err := os.Create(out)
	if err != nil {
		return convert.Stats{}, err
	}
	stats, err := conv.Convert(ctx, w, r)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(out)
	}
	return stats, err
}
