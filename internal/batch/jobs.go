package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"screen-mockup/internal/session"
)

// Job is one export: an optional screen image plus the export configuration.
// In a jobs file, background and logo images are file paths.
type Job struct {
	Name   string                `json:"name"`
	Screen string                `json:"screen,omitempty"`
	Bright *bool                 `json:"bright,omitempty"`
	YawDeg *float64              `json:"yaw_deg,omitempty"`
	LogoQR string                `json:"logo_qr,omitempty"` // QR payload used as the logo bitmap
	Export session.ExportRequest `json:"export"`
}

type jobsFile struct {
	Jobs []Job `json:"jobs"`
}

// LoadJobs reads a jobs file. Relative image paths are resolved against the
// file's directory.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}
	var f jobsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range f.Jobs {
		j := &f.Jobs[i]
		j.Screen = resolvePath(dir, j.Screen)
		j.Export.Background.Image = resolvePath(dir, j.Export.Background.Image)
		if j.Export.Logo != nil {
			j.Export.Logo.Image = resolvePath(dir, j.Export.Logo.Image)
		}
	}
	return f.Jobs, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// fileName returns the output name of job i: the job name made file-safe,
// or a numbered default.
func fileName(j Job, i int, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '.':
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(j.Name))
	if name == "" {
		name = fmt.Sprintf("mockup-%03d", i+1)
	}
	return fmt.Sprintf("%s-720.%s", name, ext)
}
