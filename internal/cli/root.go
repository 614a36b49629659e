package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// offlineAnnotation marks commands that only need the resolved config.
const offlineAnnotation = "mdplan/offline"

// NewRootCmd creates the top-level "mdplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "mdplan",
		Short:         "Project planning in a single markdown file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v, cfgFile)
			if err != nil {
				return err
			}
			app.Config = cfg
			if isOffline(cmd) || app.Connect == nil || app.Tasks != nil {
				return nil
			}
			return app.Connect(app)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Index == nil || isOffline(cmd) {
				return nil
			}
			if _, err := app.Index.Sync(cmd.Context()); err != nil {
				app.logger().Warn("index sync failed", "error", err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default .mdplan/config.yaml, then ~/.mdplan/config.yaml)")
	flags.StringP("file", "f", "", "Markdown document (default project.md)")
	flags.BoolP("verbose", "v", false, "Log service calls to stderr")
	_ = v.BindPFlag(config.KeyDocument, flags.Lookup("file"))
	_ = v.BindPFlag(config.KeyLogCalls, flags.Lookup("verbose"))

	root.AddCommand(
		newTaskCmd(app),
		newMilestoneCmd(app),
		newIdeaCmd(app),
		newStrategyCmd(app),
		newCapacityCmd(app),
		newCustomerCmd(app),
		newRateCmd(app),
		newQuoteCmd(app),
		newInvoiceCmd(app),
		newCRMCmd(app),
		newTimeCmd(app),
		newProjectCmd(app),
		newConfigCmd(app),
		newIndexCmd(app),
	)
	root.AddCommand(newRecordCmds(app)...)

	return root
}

func isOffline(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[offlineAnnotation] == "true" {
			return true
		}
	}
	return false
}

// resolveConfig layers the settings: defaults, the config file, MDPLAN_*
// environment variables, then flags. An explicit --config must exist.
func resolveConfig(v *viper.Viper, cfgFile string) (config.Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".mdplan")
		v.AddConfigPath("$HOME/.mdplan")
	}
	v.SetEnvPrefix("MDPLAN")
	v.AutomaticEnv()

	cfg := config.Default()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if cfg, err = config.LoadFrom(v.ConfigFileUsed()); err != nil {
		return cfg, err
	}

	if v.IsSet(config.KeyDocument) {
		cfg.Document = v.GetString(config.KeyDocument)
	}
	if v.IsSet(config.KeyBackupDir) {
		cfg.BackupDir = v.GetString(config.KeyBackupDir)
	}
	if v.IsSet(config.KeyMaxBackups) {
		cfg.MaxBackups = v.GetInt(config.KeyMaxBackups)
	}
	if v.IsSet(config.KeyIndexPath) {
		cfg.IndexPath = v.GetString(config.KeyIndexPath)
	}
	if v.IsSet(config.KeyLogCalls) {
		cfg.LogCalls = v.GetBool(config.KeyLogCalls)
	}
	if v.IsSet(config.KeyDefaultSections) {
		// Environment values are comma separated so headings may hold spaces.
		if s, ok := v.Get(config.KeyDefaultSections).(string); ok {
			cfg.DefaultSections = splitList(s)
		} else {
			cfg.DefaultSections = v.GetStringSlice(config.KeyDefaultSections)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg.Resolved()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
