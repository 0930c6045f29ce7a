package gfx

// Resource handles are opaque references to device-side objects. Each handle
// packs an arena slot index and a generation counter into a single uint32;
// the zero value is the invalid sentinel. Destroying a resource bumps the
// slot's generation, so stale handle copies stop resolving instead of
// dangling.

// IndexBufferHandle is an opaque reference to a device index buffer.
type IndexBufferHandle struct {
	id uint32
}

// IsValid reports whether the handle refers to a created resource. It does
// not consult the device; a handle to a destroyed resource still reports
// true here but fails resolution at the device layer.
//
// Returns:
//   - bool: false for the zero (sentinel) handle
func (h IndexBufferHandle) IsValid() bool { return h.id != 0 }

// VertexBufferHandle is an opaque reference to a device vertex buffer.
type VertexBufferHandle struct {
	id uint32
}

// IsValid reports whether the handle refers to a created resource.
//
// Returns:
//   - bool: false for the zero (sentinel) handle
func (h VertexBufferHandle) IsValid() bool { return h.id != 0 }

// TextureHandle is an opaque reference to a device texture.
type TextureHandle struct {
	id uint32
}

// IsValid reports whether the handle refers to a created resource.
//
// Returns:
//   - bool: false for the zero (sentinel) handle
func (h TextureHandle) IsValid() bool { return h.id != 0 }

// FrameBufferHandle is an opaque reference to a device framebuffer.
type FrameBufferHandle struct {
	id uint32
}

// IsValid reports whether the handle refers to a created resource.
//
// Returns:
//   - bool: false for the zero (sentinel) handle
func (h FrameBufferHandle) IsValid() bool { return h.id != 0 }

// ProgramHandle is an opaque reference to a linked device shader program.
type ProgramHandle struct {
	id uint32
}

// IsValid reports whether the handle refers to a created resource.
//
// Returns:
//   - bool: false for the zero (sentinel) handle
func (h ProgramHandle) IsValid() bool { return h.id != 0 }

// arena is a generation-checked slot allocator backing one resource kind.
// Slot indices occupy the low 16 bits of an id (offset by one so that id 0
// stays the invalid sentinel) and the slot generation occupies the high 16.
type arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint16
	alive int
}

type arenaSlot[T any] struct {
	gen   uint16
	live  bool
	value T
}

// alloc stores v in a free slot and returns its packed id (never 0).
func (a *arena[T]) alloc(v T) uint32 {
	var idx uint16
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, arenaSlot[T]{})
		idx = uint16(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.live = true
	s.value = v
	a.alive++
	return uint32(s.gen)<<16 | uint32(idx+1)
}

// lookup resolves id to its slot value. Stale generations and dead slots
// resolve to nil.
func (a *arena[T]) lookup(id uint32) (*T, bool) {
	idx, gen := id&0xFFFF, uint16(id>>16)
	if idx == 0 || int(idx) > len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx-1]
	if !s.live || s.gen != gen {
		return nil, false
	}
	return &s.value, true
}

// release frees the slot for id and returns the stored value so the caller
// can dispose any device objects it holds. Releasing an invalid or stale id
// is a no-op.
func (a *arena[T]) release(id uint32) (T, bool) {
	var zero T
	idx, gen := id&0xFFFF, uint16(id>>16)
	if idx == 0 || int(idx) > len(a.slots) {
		return zero, false
	}
	s := &a.slots[idx-1]
	if !s.live || s.gen != gen {
		return zero, false
	}
	v := s.value
	s.live = false
	s.gen++
	s.value = zero
	a.alive--
	a.free = append(a.free, uint16(idx-1))
	return v, true
}

// drain releases every live slot, invoking fn on each stored value.
func (a *arena[T]) drain(fn func(T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		v := s.value
		var zero T
		s.live = false
		s.gen++
		s.value = zero
		a.alive--
		a.free = append(a.free, uint16(i))
		if fn != nil {
			fn(v)
		}
	}
}

// count reports the number of live slots.
func (a *arena[T]) count() int { return a.alive }
