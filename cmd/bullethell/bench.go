package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bullethell/internal/bullets"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/engine"
)

var (
	flagBenchBullets int
	flagBenchFrames  int
	flagBenchRings   int
	flagBenchCopy    bool
	flagBenchWidth   float64
	flagBenchHeight  float64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Stress the bullet engine without a terminal",
	Long: `Fill the engine to capacity and simulate frames headlessly, reporting
live bullets and timing. With --rings, a ring of that many bullets is fired
from the center every frame so slots are recycled as bullets leave.

Examples:
  bullethell bench
  bullethell bench --bullets 1000000 --frames 120
  bullethell bench --rings 64 --copy`,
	Args: cobra.NoArgs,
	Run:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagBenchBullets, "bullets", 100000, "Engine capacity")
	benchCmd.Flags().IntVar(&flagBenchFrames, "frames", 600, "Frames to simulate")
	benchCmd.Flags().IntVar(&flagBenchRings, "rings", 0, "Bullets per ring fired each frame (0 = none)")
	benchCmd.Flags().BoolVar(&flagBenchCopy, "copy", false, "Copy a snapshot of every frame")
	benchCmd.Flags().Float64Var(&flagBenchWidth, "width", 1280, "Viewport width")
	benchCmd.Flags().Float64Var(&flagBenchHeight, "height", 720, "Viewport height")
}

// benchResult summarizes a bench run.
type benchResult struct {
	Frames    uint64
	Live      int
	Peak      int
	Hits      int // Frames the probe at the center collided
	Elapsed   time.Duration
	Snapshots int
}

func runBench(_ *cobra.Command, _ []string) {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	res, err := bench(flagBenchBullets, flagBenchFrames, flagBenchRings, flagBenchCopy,
		float32(flagBenchWidth), float32(flagBenchHeight), seed, flagFPS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	perFrame := time.Duration(0)
	if res.Frames > 0 {
		perFrame = res.Elapsed / time.Duration(res.Frames)
	}

	fmt.Printf("Capacity:   %d\n", flagBenchBullets)
	fmt.Printf("Frames:     %d\n", res.Frames)
	fmt.Printf("Live:       %d (peak %d)\n", res.Live, res.Peak)
	fmt.Printf("Hits:       %d\n", res.Hits)
	if flagBenchCopy {
		fmt.Printf("Snapshots:  %d\n", res.Snapshots)
	}
	fmt.Printf("Elapsed:    %s (%s/frame)\n", res.Elapsed.Round(time.Microsecond), perFrame)
}

// bench fills a fresh engine and simulates frames at tickRate.
func bench(capacity, frames, ringSize int, snapshot bool, w, h float32, seed int64, tickRate int) (benchResult, error) {
	e, err := engine.New(capacity, w, h, engine.WithLogger(log.WithPrefix("engine")))
	if err != nil {
		return benchResult{}, err
	}

	rng := rand.New(rand.NewSource(seed))
	palette := []core.Color{core.ColorRed, core.ColorOrange, core.ColorCyan, core.ColorGreen, core.ColorYellow}

	// Fill to capacity with bullets scattered over the field
	for range capacity {
		angle := rng.Float64() * 2 * math.Pi
		speed := 20 + rng.Float64()*180
		e.SpawnBullet(
			rng.Float32()*w, rng.Float32()*h,
			float32(math.Cos(angle)*speed), float32(math.Sin(angle)*speed),
			1+rng.Float32()*4,
			uint32(palette[rng.Intn(len(palette))]),
		)
	}

	dt := core.RuntimeConfig{TickRate: tickRate}.DeltaTime()
	res := benchResult{Peak: e.LiveCount()}
	var frame bullets.Frame

	start := time.Now()
	for i := range frames {
		if ringSize > 0 {
			e.SpawnRingPattern(w/2, h/2, ringSize, 150, 3, uint32(core.ColorCyan), float64(i)*0.1)
		}
		e.Update(dt)

		if e.CheckCollision(w/2, h/2, 8) {
			res.Hits++
		}
		if snapshot {
			e.CopyTo(&frame)
			res.Snapshots++
		}
		res.Peak = max(res.Peak, e.LiveCount())
	}
	res.Elapsed = time.Since(start)
	res.Frames = e.FrameCount()
	res.Live = e.LiveCount()

	return res, nil
}
