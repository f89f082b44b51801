package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/opencollector/ftcharset-go"
)

type ratios struct {
	Average float32 `yaml:"average" toml:"average"`
	Max     float32 `yaml:"max"     toml:"max"`
}

type charsetInfo struct {
	Name               string `yaml:"name"               toml:"name"`
	Decode             ratios `yaml:"decode"             toml:"decode"`
	Encode             ratios `yaml:"encode"             toml:"encode"`
	DecoderReplacement string `yaml:"decoderReplacement" toml:"decoderReplacement"`
	EncoderReplacement string `yaml:"encoderReplacement" toml:"encoderReplacement"`
}

func unitsHex(units []uint16) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = fmt.Sprintf("%04x", u)
	}
	return strings.Join(parts, " ")
}

func describeCharsets() []charsetInfo {
	var infos []charsetInfo
	for _, cs := range ftcharset.Charsets() {
		dec, enc := cs.NewDecoder(), cs.NewEncoder()
		dr, er := dec.Ratios(), enc.Ratios()
		infos = append(infos, charsetInfo{
			Name:               cs.Name(),
			Decode:             ratios{Average: dr.Average, Max: dr.Max},
			Encode:             ratios{Average: er.Average, Max: er.Max},
			DecoderReplacement: unitsHex(dec.Replacement()),
			EncoderReplacement: fmt.Sprintf("% x", enc.Replacement()),
		})
	}
	return infos
}

func (a *app) newCharsetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "charsets",
		Aliases:      []string{"charset", "cs"},
		Short:        "List the supported charsets",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("output")
			return printCharsets(cmd.OutOrStdout(), describeCharsets(), format)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output format: yaml|toml (default: human-readable)")
	_ = cmd.RegisterFlagCompletionFunc(
		"output",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp
		},
	)
	return cmd
}

func printCharsets(w io.Writer, infos []charsetInfo, format string) error {
	switch format {
	case "yaml":
		b, err := yaml.Marshal(infos)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "toml":
		return toml.NewEncoder(w).Encode(struct {
			Charsets []charsetInfo `toml:"charsets"`
		}{infos})
	case "", "text":
		//nolint:mnd // tabwriter padding
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDECODE AVG/MAX\tENCODE AVG/MAX\tREPLACEMENT")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%g/%g\t%g/%g\t%s\n",
				info.Name,
				info.Decode.Average, info.Decode.Max,
				info.Encode.Average, info.Encode.Max,
				info.EncoderReplacement)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format: %q (use text|yaml|toml)", format)
	}
}
