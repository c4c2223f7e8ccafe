// Package cmd wires tacli's cobra command tree. Adapted from
// inference-sim's cmd/root.go layout (a package-level rootCmd, one file
// per subcommand, flags bound in init(), and a thin cmd/tacli/main.go
// entrypoint that just calls Execute()).
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "tacli",
	Short: "Rolling-window technical-analysis toolkit",
}

// Execute runs the root command, exiting the process with status 1 on
// failure, matching inference-sim's cmd.Execute.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	cobra.OnInitialize(func() {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	})
}
