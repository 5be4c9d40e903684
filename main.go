package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/luki/thermwatch/internal/alert"
	"github.com/luki/thermwatch/internal/clock"
	"github.com/luki/thermwatch/internal/config"
	"github.com/luki/thermwatch/internal/cycle"
	"github.com/luki/thermwatch/internal/display"
	"github.com/luki/thermwatch/internal/logger"
	"github.com/luki/thermwatch/internal/metrics"
	"github.com/luki/thermwatch/internal/monitor"
	"github.com/luki/thermwatch/internal/report"
	"github.com/luki/thermwatch/internal/sensor"
	"github.com/luki/thermwatch/internal/threshold"
)

func main() {
	mode := "watch"
	if len(os.Args) > 1 {
		mode = strings.ToLower(os.Args[1])
	}

	switch mode {
	case "watch", "once", "tui":
	case "help", "-h", "--help":
		printHelp()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", mode)
		printHelp()
		os.Exit(2)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: logger: %v\n", err)
		os.Exit(1)
	}

	// No shutdown hook: the loop runs until the process is killed.
	ctx := context.Background()
	log.Info("thermwatch starting", zap.String("mode", mode))

	if err := run(ctx, mode, cfg, log); err != nil {
		log.Error("thermwatch stopped", zap.Error(err))
		_ = log.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(ctx context.Context, mode string, cfg config.Config, log *zap.Logger) error {
	switch mode {
	case "once":
		return newRunner(cfg, log, os.Stdout, os.Stdout).RunOnce(ctx)
	case "tui":
		// The alt screen owns stdout; bells go to stderr.
		return monitor.Run(ctx, newRunner(cfg, log, io.Discard, io.Discard), os.Stderr)
	default:
		r := newRunner(cfg, log, os.Stdout, os.Stdout)
		r.Clear = display.Stdout
		return r.Run(ctx)
	}
}

func newRunner(cfg config.Config, log *zap.Logger, out, bells io.Writer) *cycle.Runner {
	clk := clock.Real()

	var sources []metrics.SensorSource
	if cfg.NvidiaSMI {
		sources = append(sources, sensor.ReadNvidiaGPU)
	}

	return &cycle.Runner{
		Provider: metrics.NewSystem(log.Named("metrics"), clk, sources...),
		Renderer: report.New(),
		Alerter:  alert.NewEmitter(bells, clk),
		Clock:    clk,
		Out:      out,
		Log:      log.Named("cycle"),
	}
}

func printHelp() {
	fmt.Println("Usage: thermwatch [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  watch   refresh the report every second (default)")
	fmt.Println("  once    print a single report and exit")
	fmt.Println("  tui     interactive live view")
	fmt.Println("  help    show this help")
	fmt.Println()
	fmt.Printf("Cores and GPUs above %.1f°C are marked OVERHEAT and ring the bell %d times.\n", threshold.Ceiling, alert.Pulses)
	fmt.Printf("Optional settings: $%s or %s\n", config.EnvPath, config.Path())
}
