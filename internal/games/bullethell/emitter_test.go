package bullethell

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-bullethell/internal/config"
)

type shot struct {
	x, y, vx, vy, radius float32
	color                uint32
}

type ring struct {
	x, y   float32
	count  int
	offset float64
}

// recorder captures what an Emitter fires.
type recorder struct {
	shots []shot
	rings []ring
}

func (r *recorder) SpawnBullet(x, y, vx, vy, radius float32, color uint32) {
	r.shots = append(r.shots, shot{x, y, vx, vy, radius, color})
}

func (r *recorder) SpawnCirclePattern(x, y float32, count int, speed, radius float32, color uint32) {
	r.rings = append(r.rings, ring{x: x, y: y, count: count})
}

func (r *recorder) SpawnRingPattern(x, y float32, count int, speed, radius float32, color uint32, offset float64) {
	r.rings = append(r.rings, ring{x: x, y: y, count: count, offset: offset})
}

func TestEmitterRate(t *testing.T) {
	patterns := config.DefaultBulletHellConfig().Patterns
	e := NewEmitter(1, patterns, config.PatternRandom, 1.0, 8)
	e.SetField(200, 100)

	rec := &recorder{}
	fires := 0
	for i := 0; i < 4; i++ {
		fires += e.Update(rec, 0.25, 1.0, 0, 100, 50)
	}

	if fires != 8 || len(rec.shots) != 8 {
		t.Errorf("fires = %d, shots = %d, expected 8 each", fires, len(rec.shots))
	}
	if len(rec.rings) != 0 {
		t.Errorf("random pattern should not fire rings, got %d", len(rec.rings))
	}

	if got := e.Update(rec, 1.0, 2.0, 0, 100, 50); got != 16 {
		t.Errorf("rate scale 2 fires = %d, expected 16", got)
	}
}

func TestEmitterZeroRate(t *testing.T) {
	e := NewEmitter(1, config.DefaultBulletHellConfig().Patterns, config.PatternMixed, 1.0, 0)
	e.SetField(200, 100)

	rec := &recorder{}
	if got := e.Update(rec, 10, 1, 0, 0, 0); got != 0 || len(rec.shots)+len(rec.rings) != 0 {
		t.Errorf("zero rate should not fire, got %d fires", got)
	}
}

func TestEmitterAimedShotsTargetPlayer(t *testing.T) {
	patterns := config.DefaultBulletHellConfig().Patterns
	const mul = 1.5
	e := NewEmitter(42, patterns, config.PatternRandom, mul, 100)
	e.SetField(400, 300)

	rec := &recorder{}
	tx, ty := float32(200), float32(150)
	e.Update(rec, 1.0, 1.0, 0, tx, ty)

	a := patterns.Aimed
	for i, s := range rec.shots {
		dot := s.vx*(tx-s.x) + s.vy*(ty-s.y)
		if dot <= 0 {
			t.Fatalf("shot %d moves away from the target: %+v", i, s)
		}
		speed := math.Hypot(float64(s.vx), float64(s.vy))
		if speed < a.MinSpeed*mul-1e-3 || speed > a.MaxSpeed*mul+1e-3 {
			t.Errorf("shot %d speed %.2f outside [%v, %v]", i, speed, a.MinSpeed*mul, a.MaxSpeed*mul)
		}
		if float64(s.radius) < a.MinRadius || float64(s.radius) > a.MaxRadius {
			t.Errorf("shot %d radius %v out of range", i, s.radius)
		}
		if s.color != a.Color {
			t.Errorf("shot %d color %#x, expected %#x", i, s.color, a.Color)
		}
		onEdge := s.x == 0 || s.y == 0 || s.x == 400 || s.y == 300
		if !onEdge {
			t.Errorf("shot %d should start on an edge: (%v, %v)", i, s.x, s.y)
		}
	}
}

func TestEmitterRings(t *testing.T) {
	patterns := config.DefaultBulletHellConfig().Patterns
	patterns.Circle.Chance = 1
	patterns.Spiral.Chance = 1

	circle := NewEmitter(3, patterns, config.PatternCircle, 1, 4)
	circle.SetField(200, 100)
	rec := &recorder{}
	circle.Update(rec, 1, 1, 0, 0, 0)
	if len(rec.rings) != 4 || len(rec.shots) != 0 {
		t.Fatalf("circle pattern: rings = %d, shots = %d", len(rec.rings), len(rec.shots))
	}
	for _, r := range rec.rings {
		if r.count != patterns.Circle.Count || r.x < 0 || r.x > 200 || r.y < 0 || r.y > 100 {
			t.Errorf("circle ring %+v", r)
		}
	}

	spiral := NewEmitter(3, patterns, config.PatternSpiral, 1, 1)
	spiral.SetField(200, 100)
	rec = &recorder{}
	spiral.Update(rec, 1, 1, 2.5, 0, 0)
	if len(rec.rings) != 1 {
		t.Fatalf("spiral pattern: rings = %d", len(rec.rings))
	}
	r := rec.rings[0]
	if r.x != 100 || r.y != 50 || r.count != patterns.Spiral.Count || r.offset != 2.5*patterns.Spiral.TurnRate {
		t.Errorf("spiral ring %+v, expected centered with offset 2.5", r)
	}
}

func TestEmitterReset(t *testing.T) {
	patterns := config.DefaultBulletHellConfig().Patterns
	e := NewEmitter(9, patterns, config.PatternMixed, 1, 30)
	e.SetField(300, 200)

	first := &recorder{}
	e.Update(first, 1, 1, 0, 150, 100)

	e.Reset(9)
	second := &recorder{}
	e.Update(second, 1, 1, 0, 150, 100)

	if len(first.shots) != len(second.shots) || len(first.rings) != len(second.rings) {
		t.Fatalf("reset emitter diverged: %d/%d shots, %d/%d rings",
			len(first.shots), len(second.shots), len(first.rings), len(second.rings))
	}
	for i := range first.shots {
		if first.shots[i] != second.shots[i] {
			t.Fatalf("shot %d differs after reset", i)
		}
	}
}
