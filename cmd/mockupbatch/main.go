package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"screen-mockup/internal/batch"
	"screen-mockup/internal/compositor"
	"screen-mockup/internal/config"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/raster"
	"screen-mockup/internal/session"
	"screen-mockup/internal/textlayout"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	jobsFile := flag.String("jobs", "", "Path to jobs.json file")
	testN := flag.Int("test", 0, "Export only the first N jobs")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: .)")
	format := flag.String("format", "", "Export format: png or webp (default: png)")
	bright := flag.Bool("bright", true, "Make screens self-lit unless a job says otherwise")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *jobsFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: mockupbatch -jobs <jobs.json> [options]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	flags := config.Flags{OutputDir: *outputDir, Format: *format, Workers: *workers}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "bright" {
			flags.Bright = bright
		}
	})
	cfg.Resolve(flags)

	jobs, err := batch.LoadJobs(*jobsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jobs: %v\n", err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs to export.")
		os.Exit(0)
	}

	fonts := textlayout.NewFonts()
	for name, path := range cfg.Fonts {
		if err := fonts.LoadFile(name, path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: font %s: %v\n", name, err)
		}
	}

	fmt.Printf("Screen mockup batch → %s\n", cfg.Format)
	fmt.Printf("Jobs: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(context.Background(), batch.Config{
		OutputDir: cfg.OutputDir,
		Format:    compositor.ParseFormat(cfg.Format),
		Workers:   cfg.Workers,
		Bright:    cfg.BrightEnabled(),
		Session: session.Options{
			Surface:     cfg.Surface,
			TextureSize: cfg.TextureSize,
			MaxEdge:     cfg.MaxEdge,
			FlipY:       cfg.FlipYEnabled(),
		},
		Render:     raster.Options{Supersample: cfg.Supersample, YawDeg: cfg.YawDeg},
		Compositor: compositor.New(fonts),
	}, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Exported: %d/%d\n", len(results)-len(failed), len(jobs))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(len(failed), 20)
		for _, e := range failed[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
