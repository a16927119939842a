package cli

import (
	"context"
	"deduplog/internal/config"
	"deduplog/internal/global"
	"deduplog/internal/metrics"
	"deduplog/internal/sink"
	"deduplog/pkg/logctx"
	"deduplog/pkg/severity"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

func LogMode(ctx context.Context, commandname string, args []string) {
	var opts LogOptions
	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetCommon(commandFlags, &opts.ConfigPath)
	SetLogArguments(commandFlags, &opts)

	commandFlags.Usage = func() {
		PrintHelpMenu(os.Stdout, commandFlags, commandname, global.CmdOpts)
	}
	commandFlags.Parse(args)

	if severity.Index(opts.Level) < 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", opts.Level)
		os.Exit(1)
	}

	settings := ResolveSettings(opts, os.LookupEnv, os.Stderr)

	var output io.Writer = os.Stdout
	if opts.OutputPath != "" {
		fileSink, err := sink.NewFile(opts.OutputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer fileSink.Close()
		output = fileSink
	}

	logger := logctx.NewLogger(global.NSCLI, logctx.Config{
		AppName:       settings.AppName,
		Level:         settings.Level,
		DedupTTL:      settings.DedupTTL,
		DedupCapacity: settings.DedupCapacity,
		Output:        output,
	})
	ctx = logctx.WithLogger(ctx, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	gatherer := metrics.NewGatherer(logger, global.DefaultMetricInterval, global.DefaultMetricRetention)
	go gatherer.Run(runCtx)

	var server *http.Server
	if opts.MetricsAddr != "" {
		server = startMetricsServer(runCtx, opts.MetricsAddr, metrics.NewCollector(settings.AppName, logger))
	}

	// Channel for handling interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(sigChan)

	var promptOut io.Writer
	if term.IsTerminal(int(os.Stdin.Fd())) {
		promptOut = os.Stderr
	}

	readDone := make(chan error, 1)
	go func() {
		_, err := ReadAndLog(runCtx, os.Stdin, logger, opts.Level, promptOut)
		readDone <- err
	}()

	select {
	case err := <-readDone:
		if err != nil {
			logctx.Error(ctx, "Input stopped", err)
		}
	case sig := <-sigChan:
		logctx.Warn(ctx, "Received signal, stopping", map[string]any{"signal": sig.String()})
	}
	cancel()

	if server != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), global.CloseTimeout)
		err := server.Shutdown(shutdownCtx)
		stop()
		if err != nil {
			logctx.Warn(ctx, "Metrics server shutdown failed", err)
		}
	}

	logger.Close()

	if opts.PrintStats {
		gatherer.Collect(time.Now())
		err := writeStats(os.Stdout, gatherer.Registry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// Layers config file, environment and command line into logger settings.
// An unreadable config file is reported to diag and skipped.
func ResolveSettings(opts LogOptions, lookup func(string) (string, bool), diag io.Writer) (settings config.Settings) {
	settings = config.Defaults()

	if opts.ConfigPath != "" {
		cfg, err := config.LoadConfig(opts.ConfigPath)
		if err != nil {
			fmt.Fprintf(diag, "Warning: %v, continuing with defaults\n", err)
		} else {
			settings = settings.Apply(cfg)
		}
	}

	settings = config.FromEnvironment(lookup, settings)

	if opts.Threshold != "" {
		if severity.Index(opts.Threshold) < 0 {
			fmt.Fprintf(diag, "Warning: unknown threshold %q, keeping %s\n", opts.Threshold, settings.Level)
		} else {
			settings.Level = opts.Threshold
		}
	}
	return
}

// Serves collector on addr/metrics until shut down
func startMetricsServer(ctx context.Context, addr string, collector prometheus.Collector) (server *http.Server) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logctx.Error(ctx, "Metrics server failed", err, map[string]any{"addr": addr})
		}
	}()
	return
}

// Writes the newest metric slice as indented JSON
func writeStats(out io.Writer, registry *metrics.Registry) (err error) {
	encoded, err := json.MarshalIndent(metrics.Export(registry.Latest()), "", "  ")
	if err != nil {
		err = fmt.Errorf("failed to encode metrics: %w", err)
		return
	}
	_, err = fmt.Fprintf(out, "%s\n", encoded)
	if err != nil {
		err = fmt.Errorf("failed to write metrics: %w", err)
	}
	return
}
