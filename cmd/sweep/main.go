// Package main measures how frame cost grows with particle count. The
// connection pass compares every pair, so the fitted exponent should
// approach 2 as count grows.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	countsFlag := flag.String("counts", "25,50,100,200,400,800", "Comma-separated particle counts")
	frames := flag.Int("frames", 600, "Frames per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per count")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if err := validate(*outputDir, *frames, *seeds); err != nil {
		log.Fatal(err)
	}

	counts, err := parseCounts(*countsFlag)
	if err != nil {
		log.Fatalf("invalid --counts: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	runSeeds := make([]int64, *seeds)
	for i := range runSeeds {
		runSeeds[i] = int64(i*1000 + 42)
	}

	runner := NewRunner(game.FieldParams(cfg), cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, *frames, runSeeds)

	fmt.Printf("Sweeping %d counts, %d seeds, %d frames per run on %dx%d\n",
		len(counts), *seeds, *frames, cfg.Screen.Width, cfg.Screen.Height)

	var rows []Row
	startTime := time.Now()
	for _, n := range counts {
		measured := runner.Measure(n)
		rows = append(rows, measured...)

		var mean float64
		for _, r := range measured {
			mean += r.FrameUS
		}
		mean /= float64(len(measured))
		fmt.Printf("count=%d pairs=%d frame=%.0fus | elapsed: %s\n",
			n, measured[0].Pairs, mean, time.Since(startTime).Round(time.Second))
	}

	k, r2 := ScalingExponent(rows)
	fmt.Printf("\nFitted exponent: %.2f (R²=%.3f)\n", k, r2)
	if cfg.Field.SoftLimit > 0 {
		fmt.Printf("Configured soft limit: %d particles\n", cfg.Field.SoftLimit)
	}

	outPath := filepath.Join(*outputDir, "sweep.csv")
	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("failed to create %s: %v", outPath, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		log.Fatalf("failed to write sweep: %v", err)
	}
	fmt.Printf("Results saved to: %s\n", outPath)
}

// validate rejects flag values that would leave a count with no
// measurements.
func validate(outputDir string, frames, seeds int) error {
	switch {
	case outputDir == "":
		return fmt.Errorf("--output is required")
	case frames < 1:
		return fmt.Errorf("--frames must be at least 1, got %d", frames)
	case seeds < 1:
		return fmt.Errorf("--seeds must be at least 1, got %d", seeds)
	}
	return nil
}

func parseCounts(s string) ([]int, error) {
	var counts []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative count %d", n)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no counts given")
	}
	return counts, nil
}
