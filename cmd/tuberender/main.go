package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"tube-renderer/internal/batch"
	"tube-renderer/internal/config"
	"tube-renderer/internal/logging"
	"tube-renderer/internal/scenelist"
	"tube-renderer/internal/texture"
	"tube-renderer/internal/viewmatrix"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .toml, .yaml)")
	testN := flag.Int("test", 0, "Render only first N scenes for testing")
	sceneName := flag.String("scene", "", "Render only the scene with this name")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	baseDir := flag.String("base", "", "Base directory for relative paths (default: cwd)")
	sceneList := flag.String("scenes", "", "Scene list XML (default: <base>/scenes.xml)")
	outputDir := flag.String("output", "", "Output directory (default: <base>/renders)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 512)")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error (default: info)")

	flag.Parse()

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
	cfg.Resolve(config.Flags{
		BaseDir:   *baseDir,
		SceneList: *sceneList,
		OutputDir: *outputDir,
		Size:      *size,
		Workers:   *workers,
		LogLevel:  *logLevel,
	})

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	})))
	log := logging.Logger()

	// Load scene list
	scenes, err := scenelist.Parse(cfg.SceneList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene list: %v\n", err)
		os.Exit(1)
	}

	// Filter by name
	if *sceneName != "" {
		var filtered []scenelist.SceneDef
		for _, s := range scenes {
			if s.Name == *sceneName {
				filtered = append(filtered, s)
			}
		}
		scenes = filtered
	}

	// Limit for testing
	if *testN > 0 && *testN < len(scenes) {
		scenes = scenes[:*testN]
	}

	if len(scenes) == 0 {
		fmt.Println("No scenes to render.")
		os.Exit(0)
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	log.Info("textures indexed", "dir", cfg.TextureDir, "count", texIndex.Len())
	texNames := make([]string, len(scenes))
	for i, s := range scenes {
		texNames[i] = s.Texture
	}
	if missing := texCache.Warm(texNames); len(missing) > 0 {
		log.Warn("textures not found, scenes fall back to flat color", "names", missing)
	}

	// Print summary
	mode := ""
	if *sceneName != "" {
		mode = fmt.Sprintf(" (scene %s)", *sceneName)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Tube preview renderer → WebP%s\n", mode)
	fmt.Printf("Scenes: %d, Workers: %d\n", len(scenes), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:     cfg.OutputDir,
		TexResolver:   texCache,
		View:          viewmatrix.FromAngles(*cfg.Yaw, *cfg.Pitch),
		RenderSize:    cfg.RenderSize,
		Supersample:   cfg.Supersample,
		Workers:       cfg.Workers,
		EdgeThickness: float32(cfg.EdgeThickness),
		ArrowLength:   float32(cfg.ArrowLength),
	}

	results := batch.Run(ctx, batchCfg, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(scenes))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Warn("create output dir", "err", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.Warn("manifest write failed", "err", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
