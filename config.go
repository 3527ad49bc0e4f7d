/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	minTeamSize = 1
	maxTeamSize = 10
)

type Config struct {
	bind           string
	logJSON        bool
	metrics        bool
	playbackSpeed  float64
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	teamSize       int
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.teamSize < minTeamSize || c.teamSize > maxTeamSize {
		return fmt.Errorf("invalid team size (must be between %d-%d inclusive): %d", minTeamSize, maxTeamSize, c.teamSize)
	}
	if c.playbackSpeed <= 0 || math.IsNaN(c.playbackSpeed) || math.IsInf(c.playbackSpeed, 0) {
		return fmt.Errorf("invalid playback speed (must be a positive number): %v", c.playbackSpeed)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// scaled shortens or stretches an animation delay by the playback speed.
func (c *Config) scaled(d time.Duration) time.Duration {
	if c.playbackSpeed <= 0 {
		return d
	}
	return time.Duration(float64(d) / c.playbackSpeed)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SADARI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "sadari",
		Short:         "A ladder lottery and number draw for splitting a group into teams, served as a single webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: SADARI_BIND)")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "write logs as json (env: SADARI_LOG_JSON)")
	fs.BoolVar(&cfg.metrics, "metrics", false, "expose prometheus metrics at /metrics (env: SADARI_METRICS)")
	fs.Float64Var(&cfg.playbackSpeed, "playback-speed", 1.0, "multiplier for ladder animation speed (env: SADARI_PLAYBACK_SPEED)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SADARI_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: SADARI_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: SADARI_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle ladder sessions are ended (env: SADARI_SESSION_TIMEOUT)")
	fs.IntVar(&cfg.teamSize, "team-size", 3, "default members per team for new ladders (env: SADARI_TEAM_SIZE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: SADARI_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: SADARI_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: SADARI_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: SADARI_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("sadari v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
