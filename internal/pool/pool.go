// Package pool provides an in-memory object pool for track pieces.
// Objects are handed out by kind, positioned by the generator and returned
// to their free list once the player has left them behind.
package pool

import (
	"sort"
	"sync"

	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/track"
)

// Object is one pooled track piece.
type Object struct {
	ID            int
	Kind          track.Placeable
	Position      core.Vec3
	Scale         core.Vec3
	RotationReset bool
	Active        bool
	Uses          int // Number of times the object has been acquired
}

// SetPosition moves the object.
func (o *Object) SetPosition(p core.Vec3) { o.Position = p }

// SetScale resizes the object.
func (o *Object) SetScale(s core.Vec3) { o.Scale = s }

// ResetRotation marks the object's rotation as reset.
func (o *Object) ResetRotation() { o.RotationReset = true }

// Stats summarizes pool usage.
type Stats struct {
	Created  int
	Active   int
	Free     int
	Reused   int
	Recycled int
	ByKind   map[track.Placeable]int // Active objects per kind
}

// Pool hands out reusable objects. It is safe for concurrent use.
type Pool struct {
	mu       sync.RWMutex
	objects  []*Object
	free     map[track.Placeable][]*Object
	reused   int
	recycled int
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{
		objects: make([]*Object, 0, 256),
		free:    make(map[track.Placeable][]*Object),
	}
}

// Acquire returns a free object of the given kind, creating one when the
// free list is empty.
func (p *Pool) Acquire(kind track.Placeable) track.Transform {
	return p.acquire(kind)
}

func (p *Pool) acquire(kind track.Placeable) *Object {
	p.mu.Lock()
	defer p.mu.Unlock()

	var obj *Object
	if list := p.free[kind]; len(list) > 0 {
		obj = list[len(list)-1]
		p.free[kind] = list[:len(list)-1]
		p.reused++
	} else {
		obj = &Object{ID: len(p.objects), Kind: kind}
		p.objects = append(p.objects, obj)
	}

	obj.Active = true
	obj.Uses++
	obj.Position = core.Vec3{}
	obj.Scale = core.Vec3{}
	obj.RotationReset = false
	return obj
}

// Recycle returns every active object positioned before behindZ to its
// free list and reports how many were released.
func (p *Pool) Recycle(behindZ float64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, obj := range p.objects {
		if !obj.Active || obj.Position.Z >= behindZ {
			continue
		}
		obj.Active = false
		p.free[obj.Kind] = append(p.free[obj.Kind], obj)
		n++
	}
	p.recycled += n
	return n
}

// Active returns copies of the active objects ordered by forward position.
func (p *Pool) Active() []Object {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Object, 0, len(p.objects))
	for _, obj := range p.objects {
		if obj.Active {
			out = append(out, *obj)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position.Z < out[j].Position.Z
	})
	return out
}

// Stats returns current usage counters.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := Stats{
		Created:  len(p.objects),
		Reused:   p.reused,
		Recycled: p.recycled,
		ByKind:   make(map[track.Placeable]int),
	}
	for _, obj := range p.objects {
		if obj.Active {
			s.Active++
			s.ByKind[obj.Kind]++
		} else {
			s.Free++
		}
	}
	return s
}

// Reset drops every object.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.objects = p.objects[:0]
	p.free = make(map[track.Placeable][]*Object)
	p.reused = 0
	p.recycled = 0
}
