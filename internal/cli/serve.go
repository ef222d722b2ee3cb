package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xaenox/jarvis-bot/internal/bot"
	"github.com/xaenox/jarvis-bot/internal/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and, if a token is configured, the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = app.Config.HTTP.Addr
			}

			r, _ := app.StartResolver(ctx)
			defer r.Close()

			var b *bot.Bot
			if token := app.Config.Telegram.Token; token != "" {
				var err error
				if b, err = bot.New(token, r, app.Logger); err != nil {
					return err
				}
			} else {
				app.Logger.Info("Telegram token not configured, bot disabled")
			}

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return server.New(r, app.Logger).ListenAndServe(ctx, addr)
			})
			if b != nil {
				g.Go(func() error {
					return b.Start(ctx)
				})
			}

			err := g.Wait()
			app.Logger.Info("Shutting down", zap.Error(err))
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides http.addr)")

	return cmd
}
