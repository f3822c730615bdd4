package main

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/renderer"
)

// Row is one (count, seed) measurement.
type Row struct {
	Count      int     `csv:"count"`
	Seed       int64   `csv:"seed"`
	Frames     int     `csv:"frames"`
	Pairs      int     `csv:"pairs_per_frame"`
	LinksMean  float64 `csv:"links_mean"`
	ResetsMean float64 `csv:"resets_mean"`
	FrameUS    float64 `csv:"frame_us_mean"`
	FrameUSP95 float64 `csv:"frame_us_p95"`
}

// Runner measures frame cost for a base tuning at different counts.
type Runner struct {
	params        field.Params
	width, height float32
	frames        int
	seeds         []int64
}

// NewRunner creates a runner on a fixed viewport.
func NewRunner(params field.Params, width, height float32, frames int, seeds []int64) *Runner {
	return &Runner{params: params, width: width, height: height, frames: frames, seeds: seeds}
}

// Measure runs every seed for count particles in parallel. Each run owns
// its own field.
func (r *Runner) Measure(count int) []Row {
	rows := make([]Row, len(r.seeds))
	var wg sync.WaitGroup

	for i, seed := range r.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			rows[idx] = r.run(count, s)
		}(i, seed)
	}
	wg.Wait()

	return rows
}

// run executes a single headless run.
func (r *Runner) run(count int, seed int64) Row {
	params := r.params
	params.Count = count

	d := renderer.NewDiscard(r.width, r.height, 1)
	f := field.Mount(d, params, rand.New(rand.NewSource(seed)))

	durations := make([]float64, r.frames)
	var links, resets, pairs int
	for i := 0; i < r.frames; i++ {
		start := time.Now()
		fs := f.Frame(d)
		durations[i] = float64(time.Since(start).Microseconds())

		links += fs.Links
		resets += fs.Resets
		pairs = fs.Pairs
	}

	row := Row{Count: count, Seed: seed, Frames: r.frames, Pairs: pairs}
	if r.frames > 0 {
		n := float64(r.frames)
		row.LinksMean = float64(links) / n
		row.ResetsMean = float64(resets) / n
		row.FrameUS, row.FrameUSP95 = frameSummary(durations)
	}
	return row
}

// frameSummary returns the mean and 95th percentile of durations. It sorts
// durations in place.
func frameSummary(durations []float64) (mean, p95 float64) {
	if len(durations) == 0 {
		return 0, 0
	}
	mean = stat.Mean(durations, nil)
	sort.Float64s(durations)
	p95 = stat.Quantile(0.95, stat.Empirical, durations, nil)
	return mean, p95
}

// ScalingExponent fits frameUS = c·count^k on a log-log scale and returns k
// with the fit's R². Rows with zero count or time are skipped.
func ScalingExponent(rows []Row) (k, r2 float64) {
	var xs, ys []float64
	for _, row := range rows {
		if row.Count <= 0 || row.FrameUS <= 0 {
			continue
		}
		xs = append(xs, math.Log(float64(row.Count)))
		ys = append(ys, math.Log(row.FrameUS))
	}
	if len(xs) < 2 {
		return 0, 0
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 = stat.RSquared(xs, ys, nil, alpha, beta)
	return beta, r2
}
