package bullethell

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-bullethell/internal/config"
)

// Spawner receives the bullets an Emitter fires. *engine.Engine implements it.
type Spawner interface {
	SpawnBullet(x, y, vx, vy, radius float32, color uint32)
	SpawnCirclePattern(x, y float32, count int, speed, radius float32, color uint32)
	SpawnRingPattern(x, y float32, count int, speed, radius float32, color uint32, offset float64)
}

// Emitter fires bullet patterns at a fixed rate from a seeded RNG.
type Emitter struct {
	rng      *rand.Rand
	patterns config.PatternsConfig
	pattern  string
	speedMul float64 // Difficulty speed multiplier
	rate     float64 // Base fires per second
	timer    float64 // Seconds accumulated toward the next fire
	width    float64
	height   float64
}

// NewEmitter creates an emitter for the given selection.
func NewEmitter(seed int64, patterns config.PatternsConfig, pattern string, speedMul, rate float64) *Emitter {
	return &Emitter{
		rng:      rand.New(rand.NewSource(seed)),
		patterns: patterns,
		pattern:  pattern,
		speedMul: speedMul,
		rate:     rate,
	}
}

// Reset reseeds the RNG and drops the accumulated time.
func (e *Emitter) Reset(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
	e.timer = 0
}

// SetField sets the world size bullets are fired into.
func (e *Emitter) SetField(width, height float32) {
	e.width = float64(width)
	e.height = float64(height)
}

// Update accumulates dt and fires once per elapsed interval.
// rateScale multiplies the base rate; elapsed is the run time in seconds and
// turns the spiral. Returns the number of fires.
func (e *Emitter) Update(dst Spawner, dt, rateScale, elapsed float64, targetX, targetY float32) int {
	rate := e.rate * rateScale
	if rate <= 0 {
		return 0
	}
	interval := 1.0 / rate

	e.timer += dt
	fires := 0
	for e.timer >= interval {
		e.timer -= interval
		e.fire(dst, elapsed, targetX, targetY)
		fires++
	}
	return fires
}

func (e *Emitter) fire(dst Spawner, elapsed float64, targetX, targetY float32) {
	mixed := e.pattern == config.PatternMixed

	if e.pattern == config.PatternRandom || mixed {
		e.fireAimed(dst, targetX, targetY)
	}

	if e.pattern == config.PatternCircle || (mixed && e.rng.Float64() < e.patterns.Mixed.CircleChance) {
		c := e.patterns.Circle
		if e.rng.Float64() < c.Chance {
			x := e.rng.Float64() * e.width
			y := e.rng.Float64() * e.height
			dst.SpawnCirclePattern(float32(x), float32(y), c.Count, float32(c.Speed*e.speedMul), float32(c.Radius), c.Color)
		}
	}

	if e.pattern == config.PatternSpiral || (mixed && e.rng.Float64() < e.patterns.Mixed.SpiralChance) {
		s := e.patterns.Spiral
		if e.rng.Float64() < s.Chance {
			dst.SpawnRingPattern(float32(e.width/2), float32(e.height/2), s.Count,
				float32(s.Speed*e.speedMul), float32(s.Radius), s.Color, elapsed*s.TurnRate)
		}
	}
}

// fireAimed shoots one bullet from a random edge toward the target.
func (e *Emitter) fireAimed(dst Spawner, targetX, targetY float32) {
	a := e.patterns.Aimed

	var x, y float64
	switch e.rng.Intn(4) {
	case 0: // top
		x, y = e.rng.Float64()*e.width, 0
	case 1: // right
		x, y = e.width, e.rng.Float64()*e.height
	case 2: // bottom
		x, y = e.rng.Float64()*e.width, e.height
	default: // left
		x, y = 0, e.rng.Float64()*e.height
	}

	speed := (a.MinSpeed + e.rng.Float64()*(a.MaxSpeed-a.MinSpeed)) * e.speedMul
	radius := a.MinRadius + e.rng.Float64()*(a.MaxRadius-a.MinRadius)

	dx := float64(targetX) - x
	dy := float64(targetY) - y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		dx, dy, dist = 0, 1, 1
	}

	dst.SpawnBullet(float32(x), float32(y), float32(dx/dist*speed), float32(dy/dist*speed), float32(radius), a.Color)
}
