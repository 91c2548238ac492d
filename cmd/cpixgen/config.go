package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Options is the full CLI surface. Every flag is bound to a viper key, so
// a YAML job file can stand in for any flag; flags win when both are set.
type Options struct {
	Keys      []string
	Widevine  WidevineOptions
	PlayReady PlayReadyOptions
	Rules     []string
	Presets   []string
	Output    string
	Stdout    bool
	LogLevel  string
}

type WidevineOptions struct {
	Enabled     bool
	ContentID   string
	Provider    string
	PSSHVersion int
}

type PlayReadyOptions struct {
	Enabled     bool
	LAURL       string
	CBCS        bool
	PSSHVersion int
}

func (o *Options) Init(cmd *cobra.Command) error {
	cmd.Flags().StringArray("key", nil, "KID:CEK pair, both 32 hex characters (repeatable)")
	if err := viper.BindPFlag("keys", cmd.Flags().Lookup("key")); err != nil {
		return err
	}
	cmd.Flags().Bool("widevine", false, "add Widevine signaling")
	if err := viper.BindPFlag("widevine.enabled", cmd.Flags().Lookup("widevine")); err != nil {
		return err
	}
	cmd.Flags().String("widevine.content_id", "", "Widevine content ID")
	if err := viper.BindPFlag("widevine.content_id", cmd.Flags().Lookup("widevine.content_id")); err != nil {
		return err
	}
	cmd.Flags().String("widevine.provider", "", "Widevine provider name")
	if err := viper.BindPFlag("widevine.provider", cmd.Flags().Lookup("widevine.provider")); err != nil {
		return err
	}
	cmd.Flags().Int("widevine.pssh_version", 1, "Widevine PSSH box version (0 or 1)")
	if err := viper.BindPFlag("widevine.pssh_version", cmd.Flags().Lookup("widevine.pssh_version")); err != nil {
		return err
	}
	cmd.Flags().Bool("playready", false, "add PlayReady signaling")
	if err := viper.BindPFlag("playready.enabled", cmd.Flags().Lookup("playready")); err != nil {
		return err
	}
	cmd.Flags().String("playready.la_url", "", "PlayReady license acquisition URL")
	if err := viper.BindPFlag("playready.la_url", cmd.Flags().Lookup("playready.la_url")); err != nil {
		return err
	}
	cmd.Flags().Bool("playready.cbcs", false, "use AESCBC instead of AESCTR")
	if err := viper.BindPFlag("playready.cbcs", cmd.Flags().Lookup("playready.cbcs")); err != nil {
		return err
	}
	cmd.Flags().Int("playready.pssh_version", 1, "PlayReady PSSH box version (0 or 1)")
	if err := viper.BindPFlag("playready.pssh_version", cmd.Flags().Lookup("playready.pssh_version")); err != nil {
		return err
	}
	cmd.Flags().StringArray("usage_rule", nil, "KID:FILTERS custom usage rule (repeatable)")
	if err := viper.BindPFlag("usage_rules", cmd.Flags().Lookup("usage_rule")); err != nil {
		return err
	}
	cmd.Flags().StringArray("usage_rule_preset", nil, "KID:PRESET usage rule (repeatable)")
	if err := viper.BindPFlag("usage_rule_presets", cmd.Flags().Lookup("usage_rule_preset")); err != nil {
		return err
	}
	cmd.Flags().StringP("output", "o", "", "write the document to this file")
	if err := viper.BindPFlag("output", cmd.Flags().Lookup("output")); err != nil {
		return err
	}
	cmd.Flags().Bool("stdout", false, "write the document to stdout")
	if err := viper.BindPFlag("stdout", cmd.Flags().Lookup("stdout")); err != nil {
		return err
	}
	cmd.Flags().String("log_level", "warn", "log level (debug, info, warn, error)")
	if err := viper.BindPFlag("log_level", cmd.Flags().Lookup("log_level")); err != nil {
		return err
	}
	cmd.Flags().String("config", "", "YAML job file; flags override its values")
	return nil
}

func (o *Options) Set() {
	o.Keys = viper.GetStringSlice("keys")
	o.Widevine.Enabled = viper.GetBool("widevine.enabled")
	o.Widevine.ContentID = viper.GetString("widevine.content_id")
	o.Widevine.Provider = viper.GetString("widevine.provider")
	o.Widevine.PSSHVersion = viper.GetInt("widevine.pssh_version")
	o.PlayReady.Enabled = viper.GetBool("playready.enabled")
	o.PlayReady.LAURL = viper.GetString("playready.la_url")
	o.PlayReady.CBCS = viper.GetBool("playready.cbcs")
	o.PlayReady.PSSHVersion = viper.GetInt("playready.pssh_version")
	o.Rules = viper.GetStringSlice("usage_rules")
	o.Presets = viper.GetStringSlice("usage_rule_presets")
	o.Output = viper.GetString("output")
	o.Stdout = viper.GetBool("stdout")
	o.LogLevel = viper.GetString("log_level")
}
