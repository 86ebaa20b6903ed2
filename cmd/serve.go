package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/inovacc/todo/internal/server/web"
	"github.com/spf13/cobra"
)

func newServeCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server", "web"},
		Short:   "Start the web interface and JSON API",
		Long: `Start an HTTP server with the browser UI and the JSON API.

The listen address comes from the config file, the TODO_HOST, PORT and
TODO_PORT environment variables, or the --host and --port flags.

Examples:
  todo serve                    # Start on 127.0.0.1:3000
  todo serve --port 9000        # Start on a custom port
  todo serve --driver bolt      # Use the bolt store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			loc, err := s.cfg.Location()
			if err != nil {
				return err
			}

			server, err := web.New(web.Config{
				Host:     s.cfg.Server.Host,
				Port:     s.cfg.Server.Port,
				Logger:   s.logger,
				Location: loc,
			}, s.store)
			if err != nil {
				return fmt.Errorf("failed to create web server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Starting web server on http://%s\n", server.Addr())
			_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

			return server.Start(ctx)
		},
	}
}
