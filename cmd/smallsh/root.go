package main

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"smallsh/internal/config"
	"smallsh/internal/shell"
)

var cfgPath string

// rootCmd runs the interactive shell.
var rootCmd = &cobra.Command{
	Use:          "smallsh",
	Short:        "A small interactive shell",
	Long:         `Runs commands with < and > redirection and & background jobs. Ctrl-Z toggles foreground-only mode.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()

		cfg, err := config.Load(fsys, cfgPath)
		if err != nil {
			return err
		}
		shell.SetColor(cfg.Color)

		s, err := shell.New(cfg, fsys)
		if err != nil {
			return err
		}
		return s.Run(cmd.Context())
	},
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", config.DefaultConfigFile, "config file")
}
