package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"screen-mockup/internal/compositor"
	"screen-mockup/internal/config"
	"screen-mockup/internal/ingest"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/logo"
	"screen-mockup/internal/material"
	"screen-mockup/internal/raster"
	"screen-mockup/internal/session"
	"screen-mockup/internal/textlayout"
	"screen-mockup/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	screenPath := flag.String("screen", "", "Image to paint onto the screen surface")
	outputDir := flag.String("output", "", "Output directory (default: .)")
	format := flag.String("format", "", "Export format: png or webp (default: png)")
	bright := flag.Bool("bright", true, "Make the screen self-lit")
	flipY := flag.Bool("flip-y", true, "Flip textures for a bottom-left UV origin")
	yaw := flag.Float64("yaw", 0, "Model yaw in degrees")

	bgKind := flag.String("bg", "linear", "Background: solid, linear, radial or image")
	colorA := flag.String("color-a", "#e9edf3", "First background color")
	colorB := flag.String("color-b", "#ffffff", "Second background color")
	angle := flag.Float64("angle", 135, "Linear gradient angle in degrees")
	radius := flag.Float64("radius", 1, "Radial gradient radius as a fraction of the half-diagonal")
	bgImage := flag.String("bg-image", "", "Background image (with -bg image)")

	text := flag.String("text", "", "Caption text")
	font := flag.String("font", "", "Caption font family list")
	textSize := flag.Float64("text-size", 0, "Caption size in px (default: 28)")
	align := flag.String("align", "", "Caption alignment: left, center or right")
	textColor := flag.String("text-color", "", "Caption color (default: #111111)")

	logoPath := flag.String("logo", "", "Logo image")
	qr := flag.String("qr", "", "Use a QR code of this text as the logo")
	anchor := flag.String("anchor", "br", "Logo anchor: tl, tm, tr, bl, bm, br")
	logoWidth := flag.Float64("logo-width", 0, "Logo width in percent of the canvas (default: 28)")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *screenPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: mockup -screen <image> [options]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	flags := config.Flags{OutputDir: *outputDir, Format: *format}
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

	req := session.ExportRequest{
		Background: session.BackgroundConfig{
			Kind: *bgKind, ColorA: *colorA, ColorB: *colorB,
			AngleDeg: *angle, RadiusFraction: *radius,
		},
		Format: cfg.Format,
	}
	if *bgImage != "" {
		img, err := loadImage(*bgImage, cfg.MaxEdge)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading background: %v\n", err)
			os.Exit(1)
		}
		req.Background.Image = sess.Assets().Add(img)
	}
	if *text != "" {
		req.Text = &session.TextConfig{Value: *text, Font: *font, Size: *textSize, Align: *align, Color: *textColor}
	}
	switch {
	case *qr != "":
		img, err := logo.FromQR(*qr, 512)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building QR logo: %v\n", err)
			os.Exit(1)
		}
		req.Logo = &session.LogoConfig{Enabled: true, Image: sess.Assets().Add(img), Anchor: *anchor, WidthPercent: *logoWidth}
	case *logoPath != "":
		img, err := loadImage(*logoPath, cfg.MaxEdge)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading logo: %v\n", err)
			os.Exit(1)
		}
		req.Logo = &session.LogoConfig{Enabled: true, Image: sess.Assets().Add(img), Anchor: *anchor, WidthPercent: *logoWidth}
	}

	start := time.Now()
	ctx := context.Background()

	f, err := os.Open(*screenPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	err = sess.ApplyImage(ctx, f, session.ApplyOptions{Bright: cfg.BrightEnabled()})
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s (%v)\n", session.Message(session.OpApply, err), err)
		os.Exit(1)
	}

	canvas, err := sess.ExportImage(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s (%v)\n", session.Message(session.OpExport, err), err)
		os.Exit(1)
	}

	out := compositor.ParseFormat(cfg.Format)
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(cfg.OutputDir, out.Filename())
	w, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := canvas.Encode(w, out); err != nil {
		w.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s in %.2fs\n", outPath, time.Since(start).Seconds())
}

func loadImage(path string, maxEdge int) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.Decode(f, maxEdge)
}
