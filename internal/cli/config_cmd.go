package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect settings",
		Annotations: map[string]string{offlineAnnotation: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings as yaml",
		Long: "Prints the settings after applying the config file, MDPLAN_* environment\n" +
			"variables and flags, in that order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Config.Encode(cmd.OutOrStdout())
		},
	})

	return cmd
}
