package cli

import (
	"github.com/spf13/cobra"
	"github.com/xaenox/jarvis-bot/pkg/config"
)

// NewRootCmd creates the top-level "jarvis" command. Config and logger are
// loaded once, before any subcommand runs.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "jarvis",
		Short:         "Conversational assistant with quick actions, arithmetic and a knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				cfg, err := config.LoadConfig(app.ConfigPath)
				if err != nil {
					return err
				}
				app.Config = cfg
			}

			if app.Logger == nil {
				logger, err := NewLogger(app.Config.Log)
				if err != nil {
					return err
				}
				app.Logger = logger
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "config.yaml", "Path to the config file")

	root.AddCommand(
		newServeCmd(app),
		newChatCmd(app),
		newAskCmd(app),
		newImportCmd(app),
	)

	return root
}
