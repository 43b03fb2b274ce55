package bullets

import "unsafe"

// Element is the set of element types a View can expose.
type Element interface {
	float32 | uint32 | bool
}

// View is a read-only window onto one of the store's buffers. Element i of
// every view describes slot i, so views taken together are index-aligned.
//
// A view belongs to the store state it was taken from. Spawn, SpawnCircle,
// Advance and Clear invalidate it; At and Slice panic on an invalid view.
// Re-acquire views after every mutation.
type View[T Element] struct {
	data  []T
	store *Store
	epoch uint64
}

func newView[T Element](s *Store, data []T) View[T] {
	return View[T]{data: data, store: s, epoch: s.epoch}
}

// Len returns the number of elements, which is always the store capacity.
func (v View[T]) Len() int {
	return len(v.data)
}

// Stride returns the size in bytes of one element.
func (v View[T]) Stride() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Valid reports whether the store has not been mutated since the view was taken.
func (v View[T]) Valid() bool {
	return v.store != nil && v.store.epoch == v.epoch
}

// At returns element i.
func (v View[T]) At(i int) T {
	v.check()
	return v.data[i]
}

// Slice returns the backing buffer without copying. The slice aliases store
// memory and must not be written to or kept past the next mutation.
func (v View[T]) Slice() []T {
	v.check()
	return v.data[:len(v.data):len(v.data)]
}

func (v View[T]) check() {
	if !v.Valid() {
		panic("bullets: stale view: store was mutated after the view was taken")
	}
}

// X returns a view of the x positions.
func (s *Store) X() View[float32] {
	return newView(s, s.x)
}

// Y returns a view of the y positions.
func (s *Store) Y() View[float32] {
	return newView(s, s.y)
}

// Radii returns a view of the collision radii.
func (s *Store) Radii() View[float32] {
	return newView(s, s.radius)
}

// Colors returns a view of the packed colors.
func (s *Store) Colors() View[uint32] {
	return newView(s, s.color)
}

// Alive returns a view of the liveness flags. A renderer must check it
// before drawing a slot.
func (s *Store) Alive() View[bool] {
	return newView(s, s.alive)
}

// Frame is an owned copy of the renderable buffers. Unlike a View it stays
// readable after the store moves on.
type Frame struct {
	X, Y   []float32
	Radius []float32
	Color  []uint32
	Alive  []bool
	Live   int
}

// CopyTo copies the renderable buffers into f, reusing f's slices when they
// are large enough.
func (s *Store) CopyTo(f *Frame) {
	f.X = copyInto(f.X, s.x)
	f.Y = copyInto(f.Y, s.y)
	f.Radius = copyInto(f.Radius, s.radius)
	f.Color = copyInto(f.Color, s.color)
	f.Alive = copyInto(f.Alive, s.alive)
	f.Live = s.count
}

func copyInto[T Element](dst, src []T) []T {
	if cap(dst) < len(src) {
		dst = make([]T, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst
}
