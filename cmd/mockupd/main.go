package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"screen-mockup/internal/api"
	"screen-mockup/internal/compositor"
	"screen-mockup/internal/config"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/material"
	"screen-mockup/internal/raster"
	"screen-mockup/internal/session"
	"screen-mockup/internal/textlayout"
	"screen-mockup/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	addr := flag.String("addr", "", "Listen address (default: :8080)")
	surface := flag.String("surface", "", "Material name to paint (default: Screen)")
	format := flag.String("format", "", "Default export format: png or webp")
	bright := flag.Bool("bright", true, "Make the screen self-lit by default")
	flipY := flag.Bool("flip-y", true, "Flip textures for a bottom-left UV origin")
	yaw := flag.Float64("yaw", 0, "Model yaw in degrees")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	flags := config.Flags{Addr: *addr, Surface: *surface, Format: *format}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bright":
			flags.Bright = bright
		case "flip-y":
			flags.FlipY = flipY
		case "yaw":
			flags.YawDeg = yaw
		}
	})
	cfg.Resolve(flags)

	fonts := textlayout.NewFonts()
	for name, path := range cfg.Fonts {
		if err := fonts.LoadFile(name, path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: font %s: %v\n", name, err)
		}
	}

	reg := material.NewRegistry()
	scene := raster.DeviceScene(reg)
	renderer := raster.NewRenderer(scene, raster.Options{Supersample: cfg.Supersample, YawDeg: cfg.YawDeg})
	sess := session.New(reg, texture.NewCPUDevice(), renderer, compositor.New(fonts), nil, session.Options{
		Surface:     cfg.Surface,
		TextureSize: cfg.TextureSize,
		MaxEdge:     cfg.MaxEdge,
		FlipY:       cfg.FlipYEnabled(),
	})

	r := gin.Default()
	api.RegisterRoutes(r, api.NewServer(sess, cfg.BrightEnabled(), compositor.ParseFormat(cfg.Format)))

	fmt.Printf("Screen mockup server on %s (surface %q, materials %v)\n", cfg.Addr, cfg.Surface, reg.Names())
	if err := r.Run(cfg.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
