// Package bullets implements a fixed-capacity bullet store.
//
// All per-bullet data lives in parallel slices (structure-of-arrays), one
// element per slot. A slot is either live or dead; the data of a dead slot is
// stale and must not be read. Slot indices are recycled by later spawns, so an
// index is never a persistent bullet identity.
//
// The store is single-threaded. Every call runs to completion; nothing here
// blocks or allocates after New.
package bullets

import (
	"errors"
	"fmt"
	"math"
)

// CullMargin is how far beyond the bounds rectangle a bullet may travel
// before Advance kills it.
const CullMargin float32 = 50

// MaxCapacity is the largest capacity New accepts.
const MaxCapacity = 1 << 24

// ErrInvalidCapacity is returned by New for a capacity that cannot be allocated.
var ErrInvalidCapacity = errors.New("bullets: invalid capacity")

// Store owns all bullet data.
type Store struct {
	x, y   []float32 // positions
	vx, vy []float32 // velocities
	radius []float32
	color  []uint32 // packed RGBA, opaque to the store
	alive  []bool

	capacity int
	count    int

	// firstFree is a lower bound on the first dead slot: every slot below it is live.
	firstFree int

	// epoch increments on every mutation and invalidates outstanding views.
	epoch uint64
}

// New creates a store with room for capacity bullets. Every slot starts dead.
func New(capacity int) (*Store, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidCapacity, capacity, MaxCapacity)
	}

	return &Store{
		x:        make([]float32, capacity),
		y:        make([]float32, capacity),
		vx:       make([]float32, capacity),
		vy:       make([]float32, capacity),
		radius:   make([]float32, capacity),
		color:    make([]uint32, capacity),
		alive:    make([]bool, capacity),
		capacity: capacity,
	}, nil
}

// Capacity returns the fixed number of slots.
func (s *Store) Capacity() int {
	return s.capacity
}

// Count returns the number of live bullets.
func (s *Store) Count() int {
	return s.count
}

// Full reports whether a Spawn would be dropped.
func (s *Store) Full() bool {
	return s.count == s.capacity
}

// Spawn claims the lowest-indexed dead slot for a new bullet.
// When the store is full the request is dropped silently and nothing changes.
func (s *Store) Spawn(x, y, vx, vy, radius float32, color uint32) {
	if s.count == s.capacity {
		return
	}

	for i := s.firstFree; i < s.capacity; i++ {
		if s.alive[i] {
			continue
		}
		s.x[i] = x
		s.y[i] = y
		s.vx[i] = vx
		s.vy[i] = vy
		s.radius[i] = radius
		s.color[i] = color
		s.alive[i] = true
		s.count++
		s.firstFree = i + 1
		s.epoch++
		return
	}
}

// SpawnCircle spawns n bullets from (x, y) on evenly spaced headings, starting
// at angle 0 and going in increasing angle order. Each spawn is subject to the
// same capacity rule as Spawn. n <= 0 spawns nothing.
func (s *Store) SpawnCircle(x, y float32, n int, speed, radius float32, color uint32) {
	s.SpawnRing(x, y, n, speed, radius, color, 0)
}

// SpawnRing is SpawnCircle with every heading rotated by offset radians.
func (s *Store) SpawnRing(x, y float32, n int, speed, radius float32, color uint32, offset float64) {
	if n <= 0 {
		return
	}

	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		angle := step*float64(i) + offset
		vx := float32(math.Cos(angle)) * speed
		vy := float32(math.Sin(angle)) * speed
		s.Spawn(x, y, vx, vy, radius, color)
	}
}

// Advance integrates every live bullet by dt (explicit Euler) and kills the
// ones that end up outside [0, w] x [0, h] grown by CullMargin on each side.
func (s *Store) Advance(dt, w, h float32) {
	s.epoch++
	if s.count == 0 {
		return
	}

	minX, minY := -CullMargin, -CullMargin
	maxX, maxY := w+CullMargin, h+CullMargin

	for i := 0; i < s.capacity; i++ {
		if !s.alive[i] {
			continue
		}

		s.x[i] += s.vx[i] * dt
		s.y[i] += s.vy[i] * dt

		if s.x[i] < minX || s.x[i] > maxX || s.y[i] < minY || s.y[i] > maxY {
			s.alive[i] = false
			s.count--
			if i < s.firstFree {
				s.firstFree = i
			}
		}
	}
}

// Clear kills every bullet. Slot data other than liveness is left as is.
func (s *Store) Clear() {
	for i := range s.alive {
		s.alive[i] = false
	}
	s.count = 0
	s.firstFree = 0
	s.epoch++
}

// CollidesWith reports whether any live bullet overlaps the circle at (x, y)
// with radius r. Touching circles do not collide.
func (s *Store) CollidesWith(x, y, r float32) bool {
	if s.count == 0 {
		return false
	}

	for i := 0; i < s.capacity; i++ {
		if !s.alive[i] {
			continue
		}

		dx := s.x[i] - x
		dy := s.y[i] - y
		sum := s.radius[i] + r
		if dx*dx+dy*dy < sum*sum {
			return true
		}
	}
	return false
}
