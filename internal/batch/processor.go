package batch

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"tube-renderer/internal/curve"
	"tube-renderer/internal/logging"
	"tube-renderer/internal/mathutil"
	"tube-renderer/internal/postprocess"
	"tube-renderer/internal/raster"
	"tube-renderer/internal/scenelist"
	"tube-renderer/internal/texture"
	"tube-renderer/internal/tube"
	"tube-renderer/internal/wireframe"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	TexResolver   texture.Resolver
	View          mathutil.Mat3
	RenderSize    int
	Supersample   int
	Workers       int
	EdgeThickness float32
	ArrowLength   float32
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Name      string
	Curve     string
	Image     string // path relative to the output directory
	Vertices  int
	Triangles int
	Success   bool
	Error     string
}

// Run renders all scenes using a worker pool. Scenes not yet started when
// ctx is cancelled are reported as failed with the context error.
func Run(ctx context.Context, cfg Config, scenes []scenelist.SceneDef) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64
	log := logging.Logger()

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

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
					log.Info("batch: progress", "done", p, "total", total, "rate", fmt.Sprintf("%.1f/s", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(scenes[idx], err)
				} else {
					results[idx] = processScene(cfg, scenes[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

// ImageName returns the output file name for a scene.
func ImageName(scene string) string {
	return scene + ".webp"
}

func failed(def scenelist.SceneDef, err error) Result {
	return Result{Name: def.Name, Curve: def.Kind, Error: err.Error()}
}

func processScene(cfg Config, def scenelist.SceneDef) Result {
	scene, err := BuildScene(cfg, def)
	if err != nil {
		logging.Logger().Warn("batch: scene failed", "scene", def.Name, "err", err)
		return failed(def, err)
	}

	img := raster.Render(scene, cfg.RenderSize, cfg.Supersample)

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}

	// Save as WebP
	name := ImageName(def.Name)
	outPath := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return failed(def, err)
	}

	if err := writeWebP(outPath, img); err != nil {
		logging.Logger().Warn("batch: write failed", "scene", def.Name, "err", err)
		return failed(def, err)
	}

	return Result{
		Name:      def.Name,
		Curve:     def.Kind,
		Image:     name,
		Vertices:  len(scene.Mesh.Positions),
		Triangles: scene.Mesh.Triangles(),
		Success:   true,
	}
}

// writeWebP encodes img to a temporary file beside path and renames it into
// place once the encode and close both succeed. On failure the temporary
// file is removed and path is left untouched.
func writeWebP(path string, img image.Image) (err error) {
	name := filepath.Base(path)
	f, err := os.CreateTemp(filepath.Dir(path), "."+name+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(0644); err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("batch: webp encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("batch: close %s: %w", name, err)
	}
	return os.Rename(f.Name(), path)
}

// BuildScene regenerates the tube for def and collects its overlays.
// Any generation error fails the whole scene.
func BuildScene(cfg Config, def scenelist.SceneDef) (*raster.Scene, error) {
	c, err := def.Curve()
	if err != nil {
		return nil, err
	}
	opts := tube.Options{
		TubularSegments:  def.Tubular,
		RadialSegments:   def.Radial,
		Radius:           def.Thickness,
		Closed:           def.Closed,
		ArcLengthSpacing: def.ArcLength,
	}

	points, frames, err := tube.Rings(curve.NewSampler(c), opts)
	if err != nil {
		return nil, fmt.Errorf("batch: scene %s: %w", def.Name, err)
	}
	mesh, err := tube.Build(points, frames, opts)
	if err != nil {
		return nil, fmt.Errorf("batch: scene %s: %w", def.Name, err)
	}
	if def.Smooth {
		mesh.SmoothNormals()
	}

	scene := &raster.Scene{
		Mesh:  mesh,
		Color: color.NRGBA{def.Color[0], def.Color[1], def.Color[2], 255},
		View:  cfg.View,
	}

	if def.Wireframe {
		edges, err := wireframe.EdgeInstances(mesh, cfg.EdgeThickness)
		if err != nil {
			return nil, fmt.Errorf("batch: scene %s: %w", def.Name, err)
		}
		scene.Lines = append(scene.Lines, raster.InstanceLines(edges, raster.EdgeColor)...)
	}
	if def.Frames {
		arrows, err := wireframe.FrameArrows(points, frames, cfg.ArrowLength, cfg.EdgeThickness)
		if err != nil {
			return nil, fmt.Errorf("batch: scene %s: %w", def.Name, err)
		}
		scene.Lines = append(scene.Lines, raster.InstanceLines(arrows, raster.EdgeColor)...)
	}
	if def.Vertices {
		scene.Dots = raster.InstanceDots(wireframe.VertexInstances(mesh))
	}

	if def.Texture != "" && cfg.TexResolver != nil {
		scene.Texture = cfg.TexResolver.Resolve(def.Texture)
		if scene.Texture == nil {
			logging.Logger().Warn("batch: texture not found", "scene", def.Name, "texture", def.Texture)
		}
	}

	return scene, nil
}
