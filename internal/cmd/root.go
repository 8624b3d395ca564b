// Package cmd wires the tecsdemo CLI: a cobra command tree over the
// internal/host runner, configured via internal/tecsconfig.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tecsdemo",
	Short: "Drive a Total Energy Control System controller over SocketCAN.",
	Long: `tecsdemo plays a scenario of altitude and airspeed setpoints through
a TECS controller, reading estimator state from SocketCAN and publishing the
resulting throttle and pitch commands.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./tecsdemo.yaml)")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
