package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwidgets/pkg/config"
	"github.com/goliatone/go-formwidgets/pkg/logging"
)

type commandOptions struct {
	ConfigFile string
	Verbose    bool
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "formwidgets",
		Short:         "Serve and render entity-reference form widgets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to formwidgets.yml config file")

	cmd.AddCommand(newServeCommand(), newRenderCommand())
	return cmd
}

func getOptions(cmd *cobra.Command) commandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return commandOptions{ConfigFile: configFile, Verbose: verbose}
}

// loadConfig reads --config when given, otherwise the built-in defaults.
func loadConfig(opts commandOptions) (*config.Config, error) {
	if opts.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(opts.ConfigFile)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	logCfg := cfg.Logging
	logCfg.Output = cmd.ErrOrStderr()

	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	if getOptions(cmd).Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger, nil
}
