package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abrezinsky/liftmeet/internal/app"
	"github.com/abrezinsky/liftmeet/internal/auth"
	"github.com/abrezinsky/liftmeet/internal/config"
	"github.com/abrezinsky/liftmeet/internal/logger"
)

// cli carries the configuration shared by every subcommand
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:   "liftmeet",
		Short: "LiftMeet - powerlifting meet manager",
		Long: `LiftMeet runs a powerlifting meet: registrations, attempts, coefficient
scoring, placings, team scoreboards and bar loading, served over HTTP
with a live websocket feed for scoreboards.

Configuration comes from defaults, an optional config file, LIFTMEET_*
environment variables and flags, in increasing order of precedence.`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "Config file (yaml, json or toml)")
	pf.String("db", "liftmeet.db", "SQLite database path")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")

	_ = c.v.BindPFlag("database.path", pf.Lookup("db"))
	_ = c.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", pf.Lookup("log-format"))

	root.AddCommand(
		c.serveCmd(),
		c.recalcCmd(),
		c.platesCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	return config.LoadFrom(c.v, c.cfgFile)
}

func newLogger(cfg *config.Config, w io.Writer) *logger.SlogLogger {
	return logger.NewWithOptions(w, logger.ParseLevel(cfg.Log.Level), logger.ParseFormat(cfg.Log.Format))
}

// openApp loads configuration and wires the application for one-shot commands.
// Logs go to stderr so command output stays clean.
func (c *cli) openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	password := cfg.Admin.Password
	if password == "" {
		password = auth.GeneratePassword()
	}
	a, err := app.New(newLogger(cfg, cmd.ErrOrStderr()), cfg, auth.New(password))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return a, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "liftmeet %s\n", version)
		},
	}
}
