package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/goptics/raytrace/pkg/core"
	"github.com/goptics/raytrace/pkg/scene"
	"github.com/goptics/raytrace/pkg/source"
	"github.com/goptics/raytrace/pkg/tracer"
)

type options struct {
	scenePath     string
	sourceType    string
	origin        core.Vec3
	direction     core.Vec3
	wavelength    float64
	halfAngle     float64 // degrees
	rings         int
	raysPerRing   int
	beamWidth     float64
	beamHeight    float64
	cols, rows    int
	maxGeneration int
	minIntensity  float64
	workers       int
}

func main() {
	scenePath := flag.String("scene", "", "Path to a TOML scene description")
	sourceType := flag.String("source", "beam", "Source type: 'beam' or 'point'")
	origin := flag.String("origin", "0,0,-10", "Source origin as x,y,z")
	direction := flag.String("direction", "0,0,1", "Source direction as x,y,z")
	wavelength := flag.Float64("wavelength", core.DefaultWavelength, "Wavelength in microns")
	halfAngle := flag.Float64("half-angle", 5, "Point source cone half-angle in degrees")
	rings := flag.Int("rings", 3, "Point source ring count")
	raysPerRing := flag.Int("rays-per-ring", 8, "Point source rays per ring")
	beamWidth := flag.Float64("beam-width", 10, "Parallel beam width in mm")
	beamHeight := flag.Float64("beam-height", 10, "Parallel beam height in mm")
	cols := flag.Int("cols", 5, "Parallel beam grid columns")
	rows := flag.Int("rows", 5, "Parallel beam grid rows")
	maxGeneration := flag.Int("max-generation", 10, "Maximum ray tree depth")
	minIntensity := flag.Float64("min-intensity", 1e-6, "Intensity floor below which rays stop")
	workers := flag.Int("workers", 0, "Concurrent trace workers (0 = one per CPU)")
	watch := flag.Bool("watch", false, "Re-trace whenever the scene file changes")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help || *scenePath == "" {
		fmt.Println("Non-sequential optical ray tracer")
		fmt.Println("Usage: raytrace -scene system.toml [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	o, err := parseVec3(*origin)
	if err != nil {
		logger.Fatal("Invalid origin", "err", err)
	}
	d, err := parseVec3(*direction)
	if err != nil {
		logger.Fatal("Invalid direction", "err", err)
	}

	opts := options{
		scenePath:     *scenePath,
		sourceType:    *sourceType,
		origin:        o,
		direction:     d,
		wavelength:    *wavelength,
		halfAngle:     *halfAngle,
		rings:         *rings,
		raysPerRing:   *raysPerRing,
		beamWidth:     *beamWidth,
		beamHeight:    *beamHeight,
		cols:          *cols,
		rows:          *rows,
		maxGeneration: *maxGeneration,
		minIntensity:  *minIntensity,
		workers:       *workers,
	}

	if err := runTrace(logger, opts); err != nil {
		logger.Fatal("Trace failed", "err", err)
	}

	if *watch {
		if err := watchScene(logger, opts); err != nil {
			logger.Fatal("Watch failed", "err", err)
		}
	}
}

func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func buildSource(opts options) ([]core.Ray, error) {
	switch opts.sourceType {
	case "point":
		s := source.NewPointSource(opts.origin, opts.direction, radians(opts.halfAngle))
		s.Rings = opts.rings
		s.RaysPerRing = opts.raysPerRing
		s.Wavelength = opts.wavelength
		return s.Rays(), nil
	case "beam":
		b := source.NewParallelBeam(opts.origin, opts.direction, opts.beamWidth, opts.beamHeight)
		b.Cols = opts.cols
		b.Rows = opts.rows
		b.Wavelength = opts.wavelength
		return b.Rays(), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", opts.sourceType)
	}
}

func runTrace(logger *log.Logger, opts options) error {
	sys, err := scene.LoadSystem(opts.scenePath)
	if err != nil {
		return err
	}

	rays, err := buildSource(opts)
	if err != nil {
		return err
	}

	tr := tracer.New(sys, tracer.Config{
		MaxGeneration: opts.maxGeneration,
		MinIntensity:  opts.minIntensity,
		Logger:        logger,
	})

	start := time.Now()
	trees, err := tr.TraceBundle(context.Background(), rays, opts.workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	totalRays := 0
	hitsPerSurface := make(map[string]int)
	errors := 0
	for _, tree := range trees {
		totalRays += len(tree.Rays)
		for _, h := range tree.Hits {
			hitsPerSurface[h.SurfaceID]++
		}
		if tree.Err != nil {
			errors++
		}
	}

	logger.Info("Trace complete",
		"scene", opts.scenePath,
		"sources", len(rays),
		"rays", totalRays,
		"elapsed", elapsed)
	for id, n := range hitsPerSurface {
		logger.Info("Surface hits", "surface", id, "hits", n)
	}
	if errors > 0 {
		logger.Warn("Some ray trees aborted on configuration errors", "trees", errors)
	}
	return nil
}

// watchScene re-runs the trace every time the scene file is written, so a
// scene can be tuned in an editor with live feedback.
func watchScene(logger *log.Logger, opts options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(opts.scenePath); err != nil {
		return err
	}
	logger.Info("Watching scene file", "path", opts.scenePath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Info("Scene changed, re-tracing", "path", event.Name)
			if err := runTrace(logger, opts); err != nil {
				// A broken edit should not kill the watch loop.
				logger.Error("Trace failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "err", err)
		}
	}
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
