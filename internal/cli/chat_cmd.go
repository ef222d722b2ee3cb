package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/xaenox/jarvis-bot/internal/console"
)

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r, done := app.StartResolver(ctx)
			defer r.Close()
			<-done

			return console.New(r, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
}
