package track

import "github.com/vovakirdan/tower-run/internal/core"

type fakeTransform struct {
	kind          Placeable
	pos           core.Vec3
	scale         core.Vec3
	scaled        bool
	rotationReset bool
}

func (f *fakeTransform) SetPosition(p core.Vec3) { f.pos = p }
func (f *fakeTransform) SetScale(s core.Vec3) { f.scale, f.scaled = s, true }
func (f *fakeTransform) ResetRotation() { f.rotationReset = true }

type fakePool struct {
	objects []*fakeTransform
}

func (p *fakePool) Acquire(kind Placeable) Transform {
	obj := &fakeTransform{kind: kind}
	p.objects = append(p.objects, obj)
	return obj
}

func (p *fakePool) count(kind Placeable) int {
	n := 0
	for _, o := range p.objects {
		if o.kind == kind {
			n++
		}
	}
	return n
}

type fakePositions struct {
	z  float64
	ok bool
}

func (f *fakePositions) ForwardPosition() (float64, bool) { return f.z, f.ok }

type fakeProgress struct {
	cleared int
	calls   int
}

func (f *fakeProgress) SetClearedCount(n int) {
	f.cleared = n
	f.calls++
}
