package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/orajowo/cpix"
	"github.com/orajowo/cpix/drm"
	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:          "cpixgen",
		Short:        "Generate CPIX documents for multi-DRM packaging",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cobra.CheckErr(opts.Init(cmd))
	return cmd
}

func run(cmd *cobra.Command, opts *Options) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	opts.Set()
	logger := newLogger(cmd.ErrOrStderr(), opts.LogLevel)

	if len(opts.Keys) == 0 {
		return fmt.Errorf("at least one --key is required")
	}
	if opts.Output == "" && !opts.Stdout {
		return fmt.Errorf("one of --output or --stdout is required")
	}
	if opts.Output != "" && opts.Stdout {
		return fmt.Errorf("--output and --stdout are mutually exclusive")
	}
	if opts.PlayReady.Enabled && opts.PlayReady.LAURL == "" {
		return fmt.Errorf("--playready requires --playready.la_url")
	}

	keys, err := cpix.ParseKeys(opts.Keys)
	if err != nil {
		return err
	}
	logger.Debug("parsed keys", "count", len(keys))

	var generators []drm.Generator
	if opts.Widevine.Enabled {
		var contentID []byte
		if opts.Widevine.ContentID != "" {
			contentID = []byte(opts.Widevine.ContentID)
		}
		generators = append(generators, drm.Widevine{
			Provider:  opts.Widevine.Provider,
			ContentID: contentID,
			Version:   opts.Widevine.PSSHVersion,
		})
	}
	if opts.PlayReady.Enabled {
		generators = append(generators, drm.PlayReady{
			LAURL:   opts.PlayReady.LAURL,
			CBCS:    opts.PlayReady.CBCS,
			Version: opts.PlayReady.PSSHVersion,
		})
	}

	var systems []cpix.DRMSystem
	for _, g := range generators {
		pssh, err := g.Generate(keys)
		if err != nil {
			return err
		}
		logger.Debug("generated pssh", "system", g.SystemID(), "bytes", len(pssh))
		for _, k := range keys {
			systems = append(systems, cpix.DRMSystem{KID: k.KID, SystemID: g.SystemID(), PSSH: pssh})
		}
	}

	var rules []cpix.UsageRule
	for _, spec := range opts.Presets {
		kid, preset, ok := strings.Cut(spec, ":")
		if !ok {
			return fmt.Errorf("usage rule preset %q: expected KID:PRESET", spec)
		}
		rule, err := cpix.PresetRule(keys, kid, preset)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
	}
	for _, spec := range opts.Rules {
		kid, filters, ok := strings.Cut(spec, ":")
		if !ok {
			return fmt.Errorf("usage rule %q: expected KID:FILTERS", spec)
		}
		rule, err := cpix.CustomRule(keys, kid, filters)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
	}

	doc, err := cpix.Assemble(keys, systems, rules)
	if err != nil {
		return err
	}
	out, err := doc.Bytes()
	if err != nil {
		return err
	}
	if opts.Stdout {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return err
	}
	logger.Info("wrote document", "path", opts.Output, "bytes", len(out))
	return nil
}

// newLogger builds the CLI logger. Unrecognized level names fall back to
// warn.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lv slog.LevelVar
	lv.Set(slog.LevelWarn)
	if level != "" {
		if err := lv.UnmarshalText([]byte(level)); err != nil {
			lv.Set(slog.LevelWarn)
		}
	}
	return slog.New(console.NewHandler(w, &console.HandlerOptions{
		Level:      lv.Level(),
		TimeFormat: "15:04:05.000",
	}))
}
