package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tecs-core/internal/host"
	"tecs-core/internal/tecsconfig"
	"tecs-core/utils"
)

var (
	ifaceFlag    string
	scenarioFlag string
	logLevelFlag string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a scenario against a SocketCAN interface.",
	RunE:  runDemo,
}

func init() {
	runCmd.Flags().StringVar(&ifaceFlag, "iface", "", "SocketCAN interface name (overrides config)")
	runCmd.Flags().StringVar(&scenarioFlag, "scenario", "", "scenario JSON file (overrides config)")
	runCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "trace|debug|info|warn|error|critical (overrides config)")
}

func runDemo(_ *cobra.Command, _ []string) error {
	cfg, err := tecsconfig.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if ifaceFlag != "" {
		cfg.Runner.Interface = ifaceFlag
	}
	if scenarioFlag != "" {
		cfg.Runner.ScenarioPath = scenarioFlag
	}
	if logLevelFlag != "" {
		cfg.Runner.LogLevel = logLevelFlag
	}

	log, err := utils.NewFileLogger(cfg.Runner.LogPath, parseLevel(cfg.Runner.LogLevel), true)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := host.NewRunner(ctx, cfg, log)
	if err != nil {
		log.Critical("Startup failed: %v", err)
		return err
	}
	defer runner.Close()

	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		log.Critical("Run failed: %v", err)
		return err
	}

	return nil
}

func parseLevel(s string) utils.LogLevel {
	switch s {
	case "trace":
		return utils.TRACE
	case "debug":
		return utils.DEBUG
	case "warn", "warning":
		return utils.WARN
	case "error":
		return utils.ERROR
	case "critical":
		return utils.CRITICAL
	default:
		return utils.INFO
	}
}
