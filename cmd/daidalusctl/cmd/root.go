// Package cmd implements the daidalusctl command tree: a cobra root
// command plus a run subcommand that drives the Daidalus façade against
// a YAML scenario file and a params subcommand that exercises the
// bespoke parameter file format.
package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/airspace-systems/daidalus-go/pkg/logger"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
	runID    string
)

var rootCmd = &cobra.Command{
	Use:   "daidalusctl",
	Short: "Command-line driver for the Daidalus detect-and-avoid core",
	Long: `daidalusctl loads a scenario (ownship plus traffic) and a parameter
block, runs the Daidalus bands-and-alerting façade once, and prints the
resulting bands, alert levels, and recovery search outcome.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.daidalusctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(paramsCmd)
}

// Execute runs the root command.
func Execute() error {
	runID = uuid.NewString()
	return rootCmd.Execute()
}

func initConfig() {
	logger.SetLevel(logger.ParseLevel(logLevel))
	logger.SetNoColor(noColor)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME/.daidalusctl")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
