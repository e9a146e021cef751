package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/studio-images/internal/config"
	"github.com/handiism/studio-images/internal/store"
	"github.com/handiism/studio-images/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (.yaml, .yml or .json)")
	envFlag := flag.String("env", ".env", "Path to dotenv file with SUPABASE_URL and SUPABASE_KEY")
	flag.Parse()

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
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st, err := store.NewSupabase(settings.ToSupabaseConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to Supabase: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings, st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
