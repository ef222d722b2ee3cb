package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xaenox/jarvis-bot/internal/match"
)

func newAskCmd(app *App) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "ask <text...>",
		Short: "Resolve a single message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("nothing to ask")
			}

			r, done := app.StartResolver(cmd.Context())
			defer r.Close()
			<-done

			reply := r.ResolveReply(cmd.Context(), text)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, reply.Text)

			if explain {
				fmt.Fprintf(out, "\nintent: %s\n", reply.Intent)
				if reply.Action != "" {
					fmt.Fprintf(out, "action: %s\n", reply.Action)
				}
				if best, ok := match.NewEngine(r.Base()).Best(match.Normalize(text)); ok {
					fmt.Fprintf(out, "closest prompt: %q (similarity %.2f, threshold %.2f)\n",
						best.Prompt, best.Score, match.Threshold)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Show which step answered and the closest knowledge prompt")

	return cmd
}
