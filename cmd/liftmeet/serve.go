package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/liftmeet/internal/app"
	"github.com/abrezinsky/liftmeet/internal/auth"
	"github.com/abrezinsky/liftmeet/internal/browser"
)

func (c *cli) serveCmd() *cobra.Command {
	var noKeyboard, noBanner bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the meet server",
		Example: `  liftmeet serve                          # Port 8081 with liftmeet.db
  liftmeet serve --port 8080              # Different port
  liftmeet serve --db /data/meet.db       # Custom database path
  liftmeet serve --admin-password s3cret  # Fixed admin password
  liftmeet serve --config meet.yaml       # Read settings from a file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !noBanner {
				printBanner(out)
			}

			password := cfg.Admin.Password
			if password == "" {
				password = auth.GeneratePassword()
			}

			appLog := newLogger(cfg, out)
			a, err := app.New(appLog, cfg, auth.New(password))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer a.Close()

			appLog.Info("Admin password", "password", password)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noKeyboard {
				printKeyboardHelp(out)
				keys := &keyActions{
					out:       out,
					log:       appLog,
					openURL:   browser.Open,
					browseURL: fmt.Sprintf("http://localhost:%d/api/contests", cfg.Server.Port),
					quit:      stop,
				}
				go listenForKeyboard(keys)
			} else {
				fmt.Fprintf(out, "\n%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
			}

			return a.Run(ctx, cfg.Addr())
		},
	}

	f := cmd.Flags()
	f.Int("port", 8081, "HTTP server port")
	f.String("admin-password", "", "Admin password (auto-generated if not set)")
	f.BoolVar(&noKeyboard, "no-keyboard", false, "Disable keyboard shortcuts")
	f.BoolVar(&noBanner, "no-banner", false, "Skip the startup logo")

	_ = c.v.BindPFlag("server.port", f.Lookup("port"))
	_ = c.v.BindPFlag("admin.password", f.Lookup("admin-password"))

	return cmd
}
