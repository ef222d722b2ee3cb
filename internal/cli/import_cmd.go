package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xaenox/jarvis-bot/internal/knowledge"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|url>",
		Short: "Replace the SQL knowledge table with a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config.Knowledge.Driver == "" {
				return errors.New("import needs knowledge.driver and knowledge.dsn to be configured")
			}

			base, err := knowledge.Load(cmd.Context(), knowledge.NewSource(args[0], app.Logger))
			if err != nil {
				return err
			}

			dst, err := app.sqlSource(cmd.Context())
			if err != nil {
				return err
			}
			if err := dst.Replace(cmd.Context(), base); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d conversations in %d categories\n",
				base.Len(), len(base.Categories()))
			return nil
		},
	}
}
