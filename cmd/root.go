package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunFunc starts the application with the resolved configuration.
type RunFunc func(cfg *Config) error

// NewRootCommand builds the bistro command. Flags are bound to viper so they
// take precedence over the environment and the config file.
func NewRootCommand(version string, run RunFunc) *cobra.Command {
	var (
		configFile   string
		noThumbnails bool
		inline       bool
	)
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "bistro",
		Short:        "A terminal catalog of restaurants, their menus, links and photos",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("no-thumbnails") {
				v.Set(cfgKeyThumbnails, !noThumbnails)
			}
			if cmd.Flags().Changed("inline") {
				v.Set(cfgKeyAltScreen, !inline)
			}

			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default: <user config dir>/bistro/config.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-dir", "", "directory for bistro.log (default: <user cache dir>/bistro)")
	flags.BoolVar(&noThumbnails, "no-thumbnails", false, "draw image placeholders instead of ASCII thumbnails")
	flags.BoolVar(&inline, "inline", false, "render in the current terminal buffer instead of the alternate screen")

	_ = v.BindPFlag(cfgKeyDebug, flags.Lookup("debug"))
	_ = v.BindPFlag(cfgKeyLogDir, flags.Lookup("log-dir"))

	return cmd
}
