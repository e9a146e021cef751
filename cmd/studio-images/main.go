package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/studio-images/internal/config"
	"github.com/handiism/studio-images/internal/download"
	"github.com/handiism/studio-images/internal/logging"
	"github.com/handiism/studio-images/internal/naming"
	"github.com/handiism/studio-images/internal/store"
)

func main() {
	// Command line flags
	var (
		configFlag  = flag.String("config", "", "Path to config file (.yaml, .yml or .json)")
		envFlag     = flag.String("env", ".env", "Path to dotenv file with SUPABASE_URL and SUPABASE_KEY")
		outputFlag  = flag.String("output", "", "Uploads directory (overrides config)")
		logFileFlag = flag.String("log-file", "", "Append log output to this file (overrides config)")
		namingFlag  = flag.String("naming", "", "Naming policy: plain or id-suffix (overrides config)")
		persistFlag = flag.String("persist", "", "Persist mode: log or update (overrides config)")
		limitFlag   = flag.Int("limit", -1, "Process at most N studios (0 = all)")
		dryRunFlag  = flag.Bool("dry-run", false, "Simulate without downloading or writing")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		saveFlag    = flag.String("save-config", "", "Write the effective settings (without secrets) to this file and exit")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Studio Images - Download studio images with SEO filenames")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  studio-images [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: studio-images-tui")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := settings.LoadEnv(*envFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if err := applyFlags(settings, *outputFlag, *logFileFlag, *namingFlag, *persistFlag, *limitFlag, *dryRunFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *saveFlag != "" {
		out := *settings
		out.SupabaseKey = ""
		if err := out.Save(*saveFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Settings written to %s\n", *saveFlag)
		return
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(settings.LogFile, *verboseFlag, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	st, err := store.NewSupabase(settings.ToSupabaseConfig())
	if err != nil {
		logger.Errorf("Error connecting to Supabase: %v", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Interrupted, finishing current studio...")
		cancel()
	}()

	manager := download.NewManager(settings, st, logger.Handle)

	stats, err := manager.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warnf("Run cancelled after %d of %d studios", stats.Processed(), stats.Total)
			logger.Close()
			os.Exit(130)
		}
		logger.WithField("run_id", stats.RunID).Warnf("Run ended early: %v", err)
		logger.Close()
		os.Exit(1)
	}
}

// applyFlags overlays command line overrides onto settings. Empty strings and
// a negative limit mean "not given".
func applyFlags(settings *config.Settings, output, logFile, policy, persist string, limit int, dryRun bool) error {
	if output != "" {
		settings.UploadsDir = output
	}
	if logFile != "" {
		settings.LogFile = logFile
	}
	if policy != "" {
		p, err := naming.ParsePolicy(policy)
		if err != nil {
			return err
		}
		settings.NamingPolicy = string(p)
	}
	if persist != "" {
		mode, err := config.ParsePersistMode(persist)
		if err != nil {
			return err
		}
		settings.PersistMode = mode
	}
	if limit >= 0 {
		settings.Limit = limit
	}
	if dryRun {
		settings.DryRun = true
	}
	return nil
}
