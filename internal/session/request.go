package session

import (
	"screen-mockup/internal/background"
	"screen-mockup/internal/compositor"
	"screen-mockup/internal/logo"
	"screen-mockup/internal/textlayout"
)

// ExportRequest is the export configuration as sent by front ends.
// Images are referenced by asset id.
type ExportRequest struct {
	Background BackgroundConfig `json:"background"`
	Text       *TextConfig      `json:"text,omitempty"`
	Logo       *LogoConfig      `json:"logo,omitempty"`
	Format     string           `json:"format,omitempty"`
}

type BackgroundConfig struct {
	Kind           string  `json:"kind"`
	ColorA         string  `json:"color_a"`
	ColorB         string  `json:"color_b"`
	AngleDeg       float64 `json:"angle_deg"`
	RadiusFraction float64 `json:"radius_fraction"`
	Image          string  `json:"image,omitempty"`
}

type TextConfig struct {
	Value      string  `json:"value"`
	Font       string  `json:"font,omitempty"`
	Size       float64 `json:"size,omitempty"`
	LineHeight float64 `json:"line_height,omitempty"`
	Align      string  `json:"align,omitempty"`
	Color      string  `json:"color,omitempty"`
}

type LogoConfig struct {
	Enabled      bool     `json:"enabled"`
	Image        string   `json:"image"`
	WidthPercent float64  `json:"width_percent,omitempty"`
	Anchor       string   `json:"anchor,omitempty"`
	Padding      *float64 `json:"padding,omitempty"`
}

// DefaultExportRequest mirrors the overlay defaults of the editor.
func DefaultExportRequest() ExportRequest {
	return ExportRequest{
		Background: BackgroundConfig{Kind: "linear", ColorA: "#e9edf3", ColorB: "#ffffff", AngleDeg: 135},
		Format:     string(compositor.PNG),
	}
}

// Layers resolves asset ids and fills defaults. Unknown background images
// render the placeholder; unknown logo images disable the logo.
func (r ExportRequest) Layers(assets *Assets) compositor.Layers {
	bg := background.Spec{
		Kind:           background.Parse(r.Background.Kind),
		ColorA:         r.Background.ColorA,
		ColorB:         r.Background.ColorB,
		AngleDeg:       r.Background.AngleDeg,
		RadiusFraction: r.Background.RadiusFraction,
	}
	if bg.ColorA == "" {
		bg.ColorA = "#ffffff"
	}
	if bg.ColorB == "" {
		bg.ColorB = bg.ColorA
	}
	if img, ok := assets.Get(r.Background.Image); ok {
		bg.Image = img
	}

	l := compositor.Layers{Background: bg}
	if t := r.Text; t != nil {
		l.Text = &textlayout.Spec{
			Value:      t.Value,
			FontFamily: t.Font,
			SizePx:     t.Size,
			LineHeight: t.LineHeight,
			Align:      textlayout.ParseAlign(t.Align),
			Color:      t.Color,
		}
	}
	if lc := r.Logo; lc != nil && lc.Enabled {
		spec := logo.Spec{
			WidthPercent: lc.WidthPercent,
			Anchor:       logo.ParseAnchor(lc.Anchor),
			PaddingPx:    logo.DefaultPadding,
			Enabled:      true,
		}
		if spec.WidthPercent <= 0 {
			spec.WidthPercent = logo.DefaultWidthPercent
		}
		if lc.Padding != nil {
			spec.PaddingPx = *lc.Padding
		}
		if img, ok := assets.Get(lc.Image); ok {
			spec.Image = img
			l.Logo = &spec
		}
	}
	return l
}
