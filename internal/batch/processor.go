package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"screen-mockup/internal/compositor"
	"screen-mockup/internal/ingest"
	"screen-mockup/internal/logo"
	"screen-mockup/internal/material"
	"screen-mockup/internal/raster"
	"screen-mockup/internal/session"
	"screen-mockup/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir  string
	Format     compositor.Format
	Workers    int
	Bright     bool // default when a job does not say
	Session    session.Options
	Render     raster.Options
	Compositor *compositor.Compositor
}

// Result holds the outcome of one job.
type Result struct {
	Name    string
	File    string
	Screen  string
	Success bool
	Error   string
}

// Run renders all jobs using a worker pool. Each job gets its own scene so
// jobs never share a surface.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Compositor == nil {
		cfg.Compositor = compositor.New(nil)
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	assets, loadErrs := preload(jobs, cfg.Session.MaxEdge)

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f exports/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(ctx, cfg, assets, loadErrs, jobs[idx], idx)
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// preload decodes every background and logo image once. Assets are keyed
// by path.
func preload(jobs []Job, maxEdge int) (*session.Assets, map[string]error) {
	if maxEdge == 0 {
		maxEdge = ingest.DefaultMaxEdge
	}
	assets := session.NewAssets()
	errs := make(map[string]error)
	load := func(path string) {
		if path == "" {
			return
		}
		if _, ok := assets.Get(path); ok {
			return
		}
		if _, ok := errs[path]; ok {
			return
		}
		img, err := decodeFile(path, maxEdge)
		if err != nil {
			errs[path] = err
			return
		}
		assets.Put(path, img)
	}
	for i := range jobs {
		j := &jobs[i]
		load(j.Export.Background.Image)
		if j.Export.Logo != nil {
			load(j.Export.Logo.Image)
		}
		if j.LogoQR != "" {
			id := "qr:" + j.LogoQR
			if _, ok := assets.Get(id); !ok {
				img, err := logo.FromQR(j.LogoQR, 512)
				if err != nil {
					errs[id] = err
					continue
				}
				assets.Put(id, img)
			}
		}
	}
	return assets, errs
}

func decodeFile(path string, maxEdge int) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.Decode(f, maxEdge)
}

func processJob(ctx context.Context, cfg Config, assets *session.Assets, loadErrs map[string]error, job Job, idx int) Result {
	res := Result{Name: job.Name, Screen: job.Screen}

	req := job.Export
	if job.LogoQR != "" {
		if req.Logo == nil {
			req.Logo = &session.LogoConfig{Enabled: true}
		} else {
			l := *req.Logo
			req.Logo = &l
		}
		req.Logo.Image = "qr:" + job.LogoQR
	}
	for _, p := range referenced(req) {
		if err, ok := loadErrs[p]; ok {
			res.Error = fmt.Sprintf("load %s: %v", p, err)
			return res
		}
	}

	reg := material.NewRegistry()
	opts := cfg.Render
	if job.YawDeg != nil {
		opts.YawDeg = *job.YawDeg
	}
	renderer := raster.NewRenderer(raster.DeviceScene(reg), opts)
	sess := session.New(reg, texture.NewCPUDevice(), renderer, cfg.Compositor, assets, cfg.Session)
	defer sess.ClearSurface()

	if job.Screen != "" {
		bright := cfg.Bright
		if job.Bright != nil {
			bright = *job.Bright
		}
		f, err := os.Open(job.Screen)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		err = sess.ApplyImage(ctx, f, session.ApplyOptions{Bright: bright})
		f.Close()
		if err != nil {
			res.Error = fmt.Sprintf("%s: %v", session.Message(session.OpApply, err), err)
			return res
		}
	}

	canvas, err := sess.ExportImage(ctx, req)
	if err != nil {
		res.Error = fmt.Sprintf("%s: %v", session.Message(session.OpExport, err), err)
		return res
	}

	format := cfg.Format
	if req.Format != "" {
		format = compositor.ParseFormat(req.Format)
	}
	res.File = fileName(job, idx, string(format))
	outPath := filepath.Join(cfg.OutputDir, res.File)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := canvas.Encode(f, format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

func referenced(req session.ExportRequest) []string {
	paths := []string{req.Background.Image}
	if req.Logo != nil {
		paths = append(paths, req.Logo.Image)
	}
	return paths
}
